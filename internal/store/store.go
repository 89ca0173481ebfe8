package store

import (
	"context"
	"errors"

	"account-auth/internal/domain"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Migrate creates or updates the schema for all owned tables.
func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(&domain.User{})
}
