package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

type Admin struct {
	ID           string  `json:"id"`
	StoreID      string  `json:"store_id"`
	Name         string  `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Role         Role    `json:"role"`
	PasswordHash string  `json:"-"`
}

type AdminRepository interface {
	// FindByLogin matches the identifier against phone or email.
	FindByLogin(ctx context.Context, login string) (*Admin, error)
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     Admin     `json:"admin"`
}

type Service struct {
	Admins AdminRepository
	Tokens *Tokens
}

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// Login never tells the caller which half of the credentials was wrong.
func (s *Service) Login(ctx context.Context, login, password string) (Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return Session{}, fmt.Errorf("%w: login and password are required", apperr.ErrValidation)
	}

	a, err := s.Admins.FindByLogin(ctx, login)
	if errors.Is(err, apperr.ErrNotFound) {
		l.Warn("login_failed", "reason", "unknown login")
		return Session{}, errInvalidCredentials
	}
	if err != nil {
		l.Error("login_failed", "error", err)
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		l.Warn("login_failed", "reason", "password mismatch", "admin_id", a.ID)
		return Session{}, errInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(Principal{AdminID: a.ID, StoreID: a.StoreID, Role: a.Role})
	if err != nil {
		return Session{}, err
	}
	l.Info("login_ok", "admin_id", a.ID, "store_id", a.StoreID)
	return Session{Token: token, ExpiresAt: exp, Admin: *a}, nil
}
