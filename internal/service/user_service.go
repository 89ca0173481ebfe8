package service

import (
	"context"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
)

type UserService interface {
	List(ctx context.Context, filter dto.UserFilter) ([]dto.UserDetail, int64, error)
	Get(ctx context.Context, id domain.UserID) (*dto.UserDetail, error)
	UpdateRoles(ctx context.Context, id domain.UserID, roles domain.RoleList) (*dto.UserDetail, error)
	SetActive(ctx context.Context, id domain.UserID, active bool) error
	Delete(ctx context.Context, id domain.UserID) error
}
