package service

import (
	"context"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
)

// TokenClaims is the decoded identity carried by both access and refresh
// tokens.
type TokenClaims struct {
	UserID domain.UserID
	Email  string
}

type TokenService interface {
	// Mint signs a fresh access/refresh pair for the subject. The two
	// signatures are independent; either failure aborts the mint.
	Mint(ctx context.Context, userID domain.UserID, email string) (*dto.TokenPair, error)
	// VerifyAccess and VerifyRefresh report domain.ErrInvalidToken for any
	// failure, without distinguishing the reason.
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
}
