package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/go-playground/validator/v10"
)

type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(w http.ResponseWriter, code int, msg string, data any) {
	writeJSON(w, code, envelope{Success: code < 400, StatusCode: code, Message: msg, Data: data})
}

// fail maps err onto the envelope. Errors outside the client kinds are logged
// and only show their text in development.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.Status(err)
	msg := err.Error()
	if !apperr.IsClient(err) {
		logging.FromContext(r.Context()).Error("request_failed", "error", err)
		if !s.Dev {
			msg = "internal server error"
		}
	}
	respond(w, code, msg, nil)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// bind decodes the JSON body into dst and runs its validate tags.
func bind(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json body", apperr.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", apperr.ErrValidation, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}
