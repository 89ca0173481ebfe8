package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"account-auth/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

// Create persists a new user. The email is normalized to lowercase before the
// insert; a unique-index violation surfaces as domain.ErrEmailTaken.
func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	usr.Email = strings.ToLower(strings.TrimSpace(usr.Email))
	if len(usr.Roles) == 0 {
		usr.Roles = domain.RoleList{domain.RoleUser}
	}
	if err := u.db.WithContext(ctx).Create(usr).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.getOne(ctx, "id = ?", id)
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.getOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (u *UserStore) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return u.getOne(ctx, "email_verification_token = ?", token)
}

func (u *UserStore) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return u.getOne(ctx, "password_reset_token = ?", token)
}

func (u *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetRefreshTokenHash overwrites the stored refresh-token hash. A nil hash
// clears it (logout).
func (u *UserStore) SetRefreshTokenHash(ctx context.Context, userID uuid.UUID, hash *string) error {
	return u.updateFields(ctx, userID, map[string]any{"refresh_token_hash": hash})
}

// SetVerificationToken replaces the pending email-verification token.
func (u *UserStore) SetVerificationToken(ctx context.Context, userID uuid.UUID, token string) error {
	return u.updateFields(ctx, userID, map[string]any{"email_verification_token": token})
}

// MarkEmailVerified flips the verified flag and consumes the token in one
// update.
func (u *UserStore) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	return u.updateFields(ctx, userID, map[string]any{
		"is_email_verified":        true,
		"email_verification_token": nil,
	})
}

// SetPasswordResetToken stores a reset token together with its expiry.
func (u *UserStore) SetPasswordResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	return u.updateFields(ctx, userID, map[string]any{
		"password_reset_token":      token,
		"password_reset_expires_at": expiresAt,
	})
}

// ReplacePassword swaps the password hash and clears any outstanding reset
// token and expiry atomically.
func (u *UserStore) ReplacePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return u.updateFields(ctx, userID, map[string]any{
		"password_hash":             passwordHash,
		"password_reset_token":      nil,
		"password_reset_expires_at": nil,
	})
}

func (u *UserStore) SetRoles(ctx context.Context, userID uuid.UUID, roles domain.RoleList) error {
	return u.updateFields(ctx, userID, map[string]any{"roles": roles})
}

func (u *UserStore) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	return u.updateFields(ctx, userID, map[string]any{"is_active": active})
}

func (u *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	res := u.db.WithContext(ctx).Where("id = ?", userID).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (u *UserStore) updateFields(ctx context.Context, userID uuid.UUID, fields map[string]any) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
