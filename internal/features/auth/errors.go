package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInactiveAccount    = errors.New("your account is inactive, contact an administrator")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidState       = errors.New("invalid or expired sign-in state")
	ErrDomainNotAllowed   = errors.New("email domain is not allowed")
	ErrEmailNotVerified   = errors.New("google account email is not verified")
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
)
