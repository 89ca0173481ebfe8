package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
	"account-auth/internal/observability/metrics"
	obsmw "account-auth/internal/observability/middleware"
	"account-auth/internal/service"
	"account-auth/internal/store"

	"github.com/google/uuid"
)

const (
	MsgRegistered            = "Registration successful. Please check your email to verify your account."
	MsgVerificationResent    = "The verification email has been resent."
	MsgMaybeVerificationSent = "If an account with that email exists, a verification email has been sent."
	MsgMaybeResetSent        = "If an account with that email exists, a password reset email has been sent."
)

type AuthServiceImpl struct {
	Store         dataStore
	Password      service.PasswordService
	Tokens        service.TokenService
	Mail          service.MailService
	ResetTokenTTL time.Duration
}

func NewAuthServiceImpl(st *store.Store, password service.PasswordService, tokens service.TokenService, mail service.MailService, resetTokenTTL time.Duration) *AuthServiceImpl {
	if resetTokenTTL <= 0 {
		resetTokenTTL = time.Hour
	}
	return &AuthServiceImpl{
		Store:         gormStoreAdapter{store: st},
		Password:      password,
		Tokens:        tokens,
		Mail:          mail,
		ResetTokenTTL: resetTokenTTL,
	}
}

type dataStore interface {
	Users() userStore
	WithTx(ctx context.Context, fn func(tx dataStore) error) error
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	SetRefreshTokenHash(ctx context.Context, userID uuid.UUID, hash *string) error
	SetVerificationToken(ctx context.Context, userID uuid.UUID, token string) error
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error
	SetPasswordResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	ReplacePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) Users() userStore { return g.store.Users() }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx dataStore) error) error {
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormStoreAdapter{store: tx})
	})
}

// newOpaqueToken returns 32 random bytes hex-encoded, used for the one-shot
// verification and reset flows. Distinct from signed JWTs on purpose.
func newOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	result := "success"
	defer func() { metrics.RegistrationsTotal.WithLabelValues(result).Inc() }()

	if err := validateRegistration(r); err != nil {
		result = "failure"
		return nil, err
	}

	passwordHash, err := a.Password.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}
	verificationToken, err := newOpaqueToken()
	if err != nil {
		result = "failure"
		return nil, err
	}

	user := &domain.User{
		ID:                     uuid.New(),
		Email:                  r.Email,
		PasswordHash:           passwordHash,
		Name:                   strings.TrimSpace(r.Name),
		Roles:                  domain.RoleList{domain.RoleUser},
		IsActive:               true,
		IsEmailVerified:        false,
		EmailVerificationToken: &verificationToken,
	}
	if err := a.Store.Users().Create(ctx, user); err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user registered",
		"user_id", user.ID,
		"request_id", obsmw.RequestIDFromContext(ctx),
	)

	// The user is persisted either way; a failed send surfaces so the caller
	// can retry via resend-verification.
	if err := a.sendVerification(ctx, user, verificationToken); err != nil {
		result = "failure"
		return nil, err
	}

	return &dto.RegisterResponse{Message: MsgRegistered, Email: user.Email}, nil
}

func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) (*dto.AuthResponse, error) {
	user, err := a.Store.Users().GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidVerifyToken
		}
		return nil, err
	}

	if err := a.Store.Users().MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsEmailVerified = true
	user.EmailVerificationToken = nil

	// Best-effort: a failed welcome mail never fails verification.
	if err := a.Mail.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("welcome", "failure").Inc()
		slog.Warn("welcome email failed", "error", err, "user_id", user.ID)
	} else {
		metrics.EmailsSentTotal.WithLabelValues("welcome", "success").Inc()
	}

	return a.issueTokens(ctx, user, "verify")
}

func (a *AuthServiceImpl) ResendVerification(ctx context.Context, email string) (string, error) {
	user, err := a.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Do not reveal whether the account exists.
			return MsgMaybeVerificationSent, nil
		}
		return "", err
	}
	if user.IsEmailVerified {
		return "", domain.ErrEmailAlreadyVerified
	}

	token, err := newOpaqueToken()
	if err != nil {
		return "", err
	}
	if err := a.Store.Users().SetVerificationToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	if err := a.sendVerification(ctx, user, token); err != nil {
		return "", err
	}
	return MsgVerificationResent, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() { metrics.LoginsTotal.WithLabelValues(result).Inc() }()

	user, err := a.Store.Users().GetByEmail(ctx, r.Email)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			// Same message as a bad password; no account-enumeration signal.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !a.Password.Verify(r.Password, user.PasswordHash) {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		result = "failure"
		return nil, domain.ErrUserDisabled
	}
	if !user.IsEmailVerified {
		result = "failure"
		return nil, domain.ErrEmailNotVerified
	}

	res, err := a.issueTokens(ctx, user, "login")
	if err != nil {
		result = "failure"
		return nil, err
	}
	slog.Info("user logged in",
		"user_id", user.ID,
		"request_id", obsmw.RequestIDFromContext(ctx),
		"trace_id", obsmw.TraceIDFromContext(ctx),
	)
	return res, nil
}

func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := a.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Byte-identical acknowledgement for unknown accounts.
			return MsgMaybeResetSent, nil
		}
		return "", err
	}

	token, err := newOpaqueToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().UTC().Add(a.ResetTokenTTL)
	if err := a.Store.Users().SetPasswordResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return "", err
	}

	if err := a.Mail.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("password_reset", "failure").Inc()
		return "", err
	}
	metrics.EmailsSentTotal.WithLabelValues("password_reset", "success").Inc()
	return MsgMaybeResetSent, nil
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordLength
	}

	// Token lookup, expiry check and password replacement share one
	// transaction so the token is consumed atomically with the swap.
	return a.Store.WithTx(ctx, func(tx dataStore) error {
		user, err := tx.Users().GetByResetToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrInvalidResetToken
			}
			return err
		}
		if user.PasswordResetExpiresAt == nil || user.PasswordResetExpiresAt.Before(time.Now().UTC()) {
			return domain.ErrResetTokenExpired
		}

		hash, err := a.Password.Hash(newPassword)
		if err != nil {
			return err
		}
		return tx.Users().ReplacePassword(ctx, user.ID, hash)
	})
}

func (a *AuthServiceImpl) Refresh(ctx context.Context, userID domain.UserID, refreshToken string) (*dto.AuthResponse, error) {
	user, err := a.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidRefreshSession
		}
		return nil, err
	}
	if user.RefreshTokenHash == nil || !a.Password.Verify(refreshToken, *user.RefreshTokenHash) {
		return nil, domain.ErrInvalidRefreshSession
	}

	// Rotation: the overwrite below invalidates the presented token.
	return a.issueTokens(ctx, user, "refresh")
}

func (a *AuthServiceImpl) Logout(ctx context.Context, userID domain.UserID) error {
	err := a.Store.Users().SetRefreshTokenHash(ctx, userID, nil)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}

// issueTokens mints a pair, persists the refresh-token hash, and builds the
// auth response. At most one refresh token is valid per user because only the
// newest hash is retained.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, user *domain.User, flow string) (*dto.AuthResponse, error) {
	result := "success"
	defer func() { metrics.TokensIssuedTotal.WithLabelValues(flow, result).Inc() }()

	pair, err := a.Tokens.Mint(ctx, user.ID, user.Email)
	if err != nil {
		result = "failure"
		return nil, err
	}
	hash, err := a.Password.Hash(pair.RefreshToken)
	if err != nil {
		result = "failure"
		return nil, err
	}
	if err := a.Store.Users().SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		result = "failure"
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.NewUserProfile(user),
	}, nil
}

func (a *AuthServiceImpl) sendVerification(ctx context.Context, user *domain.User, token string) error {
	if err := a.Mail.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("verification", "failure").Inc()
		return err
	}
	metrics.EmailsSentTotal.WithLabelValues("verification", "success").Inc()
	return nil
}

func validateRegistration(r dto.RegisterRequest) error {
	if strings.TrimSpace(r.Email) == "" || !strings.ContainsRune(r.Email, '@') {
		return ErrEmptyEmail
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if len(r.Password) < 8 {
		return ErrPasswordLength
	}
	return nil
}
