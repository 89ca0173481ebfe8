package service

import (
	"context"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) (*dto.AuthResponse, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Refresh(ctx context.Context, userID domain.UserID, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID domain.UserID) error
}
