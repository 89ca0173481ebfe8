package impl

import (
	"context"
	"errors"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
	"account-auth/internal/store"

	"github.com/google/uuid"
)

type UserServiceImpl struct {
	Store adminStore
}

func NewUserServiceImpl(st *store.Store) *UserServiceImpl {
	return &UserServiceImpl{Store: st.Users()}
}

type adminStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, q store.ListQuery) ([]domain.User, int64, error)
	SetRoles(ctx context.Context, userID uuid.UUID, roles domain.RoleList) error
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

func (s *UserServiceImpl) List(ctx context.Context, filter dto.UserFilter) ([]dto.UserDetail, int64, error) {
	users, total, err := s.Store.List(ctx, store.ListQuery{
		Role:     filter.Role,
		Verified: filter.Verified,
		Active:   filter.Active,
		Search:   filter.Search,
		SortBy:   filter.SortBy,
		SortDesc: filter.SortDesc,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserDetail, len(users))
	for i := range users {
		out[i] = dto.NewUserDetail(&users[i])
	}
	return out, total, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, id domain.UserID) (*dto.UserDetail, error) {
	user, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	detail := dto.NewUserDetail(user)
	return &detail, nil
}

func (s *UserServiceImpl) UpdateRoles(ctx context.Context, id domain.UserID, roles domain.RoleList) (*dto.UserDetail, error) {
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}
	if err := s.Store.SetRoles(ctx, id, roles); err != nil {
		return nil, mapNotFound(err)
	}
	user, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	detail := dto.NewUserDetail(user)
	return &detail, nil
}

func (s *UserServiceImpl) SetActive(ctx context.Context, id domain.UserID, active bool) error {
	return mapNotFound(s.Store.SetActive(ctx, id, active))
}

func (s *UserServiceImpl) Delete(ctx context.Context, id domain.UserID) error {
	return mapNotFound(s.Store.Delete(ctx, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}
