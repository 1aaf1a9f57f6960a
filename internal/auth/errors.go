package auth

import "errors"

var (
	ErrMissingToken       = errors.New("authentication token is missing")
	ErrInvalidToken       = errors.New("invalid authentication token")
	ErrExpiredToken       = errors.New("authentication token has expired")
	ErrRevokedToken       = errors.New("authentication token has been revoked")
	ErrInactiveUser       = errors.New("user is inactive or deleted")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
)
