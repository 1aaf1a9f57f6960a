package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BuzzLyutic/tasklist-api/internal/auth"
)

// NonFieldErrors is the key for errors that belong to no single field.
const NonFieldErrors = "__all__"

// Credentials is the body of a token request.
type Credentials struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Invalid  []string `json:"-"`
}

// AuthService exchanges credentials for tokens.
type AuthService struct {
	authn    *auth.Authenticator
	validate *validator.Validate
}

func NewAuthService(authn *auth.Authenticator) *AuthService {
	return &AuthService{authn: authn, validate: newValidator()}
}

// ObtainToken validates the credentials and returns a signed token. Bad
// credentials are reported as a non-field validation error.
func (s *AuthService) ObtainToken(ctx context.Context, in Credentials) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := check(s.validate, in, in.Invalid); err != nil {
		return "", err
	}

	token, err := s.authn.Login(ctx, in.Username, in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return "", FieldError(NonFieldErrors, "Unable to log in with provided credentials.")
	}
	return token, err
}

func (s *AuthService) RevokeToken(ctx context.Context, claims auth.Claims) error {
	return s.authn.Revoke(ctx, claims)
}
