package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
	"github.com/BuzzLyutic/tasklist-api/internal/repo"
)

// Authenticator resolves bearer tokens to identities and logs users in.
type Authenticator struct {
	tokens   *Tokens
	denylist Denylist
	users    repo.UserRepository
	logger   *zap.Logger
}

func NewAuthenticator(tokens *Tokens, denylist Denylist, users repo.UserRepository, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		denylist: denylist,
		users:    users,
		logger:   logger,
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

// Authenticate validates the Authorization header value. Errors for which
// IsUnauthorized is false come from a failing store.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Claims, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return Claims{}, err
	}

	claims, err := a.tokens.Validate(raw)
	if err != nil {
		a.logger.Debug("token rejected", zap.Error(err))
		return Claims{}, err
	}

	revoked, err := a.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, ErrRevokedToken
	}

	u, err := a.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrorNotFound) || (err == nil && !u.IsActive) {
		return Claims{}, ErrInactiveUser
	}
	if err != nil {
		return Claims{}, fmt.Errorf("load user %d: %w", claims.UserID, err)
	}

	claims.Username = u.Username
	return claims, nil
}

// Login checks the credentials and returns a fresh token.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	u, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrorNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load user %q: %w", username, err)
	}
	if !u.IsActive || !CheckPassword(u.PasswordHash, password) {
		a.logger.Info("login failed", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(u)
	if err != nil {
		return "", err
	}
	a.logger.Info("token issued", zap.Int64("user_id", u.ID))
	return token, nil
}

// Revoke invalidates the token described by claims until it expires.
func (a *Authenticator) Revoke(ctx context.Context, claims Claims) error {
	return a.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt)
}

// CreateUser hashes password and stores a new active user.
func (a *Authenticator) CreateUser(ctx context.Context, username, password string) (model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	return a.users.Create(ctx, model.User{Username: username, PasswordHash: hash, IsActive: true})
}

// IsUnauthorized reports whether err means the caller failed authentication.
func IsUnauthorized(err error) bool {
	for _, target := range []error{ErrMissingToken, ErrInvalidToken, ErrExpiredToken, ErrRevokedToken, ErrInactiveUser} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
