package dto

import (
	"time"

	"account-auth/internal/domain"
)

type UserProfile struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

func NewUserProfile(u *domain.User) UserProfile {
	return UserProfile{
		ID:              u.ID.String(),
		Email:           u.Email,
		Name:            u.Name,
		IsEmailVerified: u.IsEmailVerified,
	}
}

type UserDetail struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Roles           []string  `json:"roles"`
	IsActive        bool      `json:"isActive"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewUserDetail(u *domain.User) UserDetail {
	return UserDetail{
		ID:              u.ID.String(),
		Email:           u.Email,
		Name:            u.Name,
		Roles:           u.Roles.Strings(),
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type UserFilter struct {
	Role     *domain.Role
	Verified *bool
	Active   *bool
	Search   string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}
