package impl

import "errors"

var (
	ErrEmptyPassword  = errors.New("empty password")
	ErrEmptyEmail     = errors.New("empty email")
	ErrPasswordLength = errors.New("password too short")
	ErrEmptyName      = errors.New("empty name")
	ErrNoRoles        = errors.New("at least one role is required")
)
