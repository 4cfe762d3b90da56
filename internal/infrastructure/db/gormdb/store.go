package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/warbler/warbler/internal/core/ports"
)

// Store implements ports.Store on a gorm handle. Inside Transaction the
// handle is the open transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() ports.UserRepository       { return &UserRepository{db: s.db} }
func (s *Store) Messages() ports.MessageRepository { return &MessageRepository{db: s.db} }
func (s *Store) Follows() ports.FollowRepository   { return &FollowRepository{db: s.db} }

func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
