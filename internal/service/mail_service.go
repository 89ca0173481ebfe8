package service

import "context"

type MailService interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
	SendWelcomeEmail(ctx context.Context, to, name string) error
}
