package domain

import "errors"

var (
	ErrEmailTaken            = errors.New("this email is already in use")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailNotVerified      = errors.New("please verify your email before logging in")
	ErrEmailAlreadyVerified  = errors.New("the email account has already been verified")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserDisabled          = errors.New("account is disabled")
	ErrInvalidVerifyToken    = errors.New("invalid verification token")
	ErrInvalidResetToken     = errors.New("invalid reset token")
	ErrResetTokenExpired     = errors.New("reset token has expired")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrInvalidRefreshSession = errors.New("invalid refresh token")
)
