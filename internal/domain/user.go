package domain

import "time"

type User struct {
	ID                     UserID     `gorm:"type:uuid;primaryKey" json:"id"`
	Email                  string     `gorm:"type:text;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash           string     `gorm:"type:text;not null" json:"-"`
	Name                   string     `gorm:"type:text;not null" json:"name"`
	Roles                  RoleList   `gorm:"type:text;not null;default:user" json:"roles"`
	IsActive               bool       `gorm:"not null;default:true" json:"isActive"`
	IsEmailVerified        bool       `gorm:"not null;default:false" json:"isEmailVerified"`
	EmailVerificationToken *string    `gorm:"type:text;uniqueIndex:ux_users_verification_token" json:"-"`
	PasswordResetToken     *string    `gorm:"type:text;uniqueIndex:ux_users_reset_token" json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
	RefreshTokenHash       *string    `gorm:"type:text" json:"-"`
	CreatedAt              time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt              time.Time  `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
