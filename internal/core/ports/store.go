package ports

import (
	"context"

	"github.com/warbler/warbler/internal/core/domain"
)

// UserRepository persists users. Create and Update report constraint
// failures as *domain.IntegrityError; lookups return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Search matches username case-insensitively on a substring.
	Search(ctx context.Context, query string, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user together with its messages and follow edges.
	Delete(ctx context.Context, id int64) error
}

// MessageRepository persists messages.
type MessageRepository interface {
	// Create stores the message; a zero Timestamp is set to the current time.
	Create(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, id int64) (*domain.Message, error)
	// ListByUser returns the user's messages in insertion order.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Message, error)
	// Timeline returns messages authored by any of userIDs, newest first.
	Timeline(ctx context.Context, userIDs []int64, limit int) ([]*domain.Message, error)
	Delete(ctx context.Context, id int64) error
}

// FollowRepository persists follow edges.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID int64) error
	// Delete returns domain.ErrNotFollowing when no edge exists.
	Delete(ctx context.Context, followerID, followedID int64) error
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	// Following lists the users userID follows.
	Following(ctx context.Context, userID int64) ([]*domain.User, error)
	// Followers lists the users following userID.
	Followers(ctx context.Context, userID int64) ([]*domain.User, error)
}

// Store is the persistence handle every workflow receives explicitly.
type Store interface {
	Users() UserRepository
	Messages() MessageRepository
	Follows() FollowRepository

	// Transaction runs fn against a store bound to one transaction. It commits
	// when fn returns nil and rolls back otherwise. Repositories reached
	// through tx must be called with the ctx handed to fn.
	Transaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Ping(ctx context.Context) error
}
