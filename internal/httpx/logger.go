package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger puts a request-scoped logger on the context and logs completion
// at a level picked from the status code.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(
				"method", r.Method,
				"url", r.URL.Path,
				"remote_ip", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
			ctx := r.Context()
			if rid := middleware.GetReqID(ctx); rid != "" {
				l = l.With("request_id", rid)
				w.Header().Set(middleware.RequestIDHeader, rid)
				ctx = orders.WithTrace(ctx, rid)
			}
			ctx = logging.IntoContext(ctx, l)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			dur := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			switch {
			case status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds())
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", ww.BytesWritten())
			}
		})
	}
}
