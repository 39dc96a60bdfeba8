package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already exists")
	ErrInvalidPassword = errors.New("password must be at least 8 characters")
	ErrInvalidRole     = errors.New("invalid role")
	ErrSelfDemotion    = errors.New("admins cannot remove their own admin role")
	ErrEmptyName       = errors.New("fullName cannot be empty")
)
