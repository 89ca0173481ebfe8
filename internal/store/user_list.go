package store

import (
	"context"
	"strings"

	"account-auth/internal/domain"
)

// ListQuery narrows and orders a user listing.
type ListQuery struct {
	Role     *domain.Role
	Verified *bool
	Active   *bool
	Search   string // matches name or email, case-insensitive
	SortBy   string // one of sortableColumns; defaults to created_at
	SortDesc bool
	Page     int // 1-based
	Limit    int
}

var sortableColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"email":     "email",
	"name":      "name",
}

// List returns the matching page of users plus the total match count.
func (u *UserStore) List(ctx context.Context, q ListQuery) ([]domain.User, int64, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	db := u.db.WithContext(ctx).Model(&domain.User{})
	if q.Role != nil {
		// roles is a comma-joined list; match whole entries only.
		db = db.Where("(',' || roles || ',') LIKE ?", "%,"+string(*q.Role)+",%")
	}
	if q.Verified != nil {
		db = db.Where("is_email_verified = ?", *q.Verified)
	}
	if q.Active != nil {
		db = db.Where("is_active = ?", *q.Active)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(name) LIKE ? OR email LIKE ?", needle, needle)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortableColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	var users []domain.User
	err := db.Order(column + " " + direction).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
