package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
)

const accessTokenType = "access"

// Claims are the validated contents of an access token.
type Claims struct {
	UserID    int64
	Username  string
	ID        string
	ExpiresAt time.Time
}

func (c Claims) Identity() model.Identity {
	return model.Identity{UserID: c.UserID, Username: c.Username}
}

type tokenClaims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Tokens issues and validates HS256 access tokens.
type Tokens struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	leeway time.Duration
}

func NewTokens(secret string, ttl time.Duration, issuer string) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &Tokens{
		key:    []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
		leeway: 30 * time.Second,
	}, nil
}

// Issue returns a signed token for u.
func (s *Tokens) Issue(u model.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID:    u.ID,
		Username:  u.Username,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses raw and returns its claims, or ErrExpiredToken /
// ErrInvalidToken.
func (s *Tokens) Validate(raw string) (Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &tokenClaims{},
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || tc.TokenType != accessTokenType || tc.UserID <= 0 || tc.ID == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		UserID:    tc.UserID,
		Username:  tc.Username,
		ID:        tc.ID,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}
