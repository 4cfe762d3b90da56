package ports

import (
	"context"

	"github.com/warbler/warbler/internal/core/domain"
)

// UpdateProfileInput holds the editable profile fields. Empty fields keep
// their current value. Password must match the current password.
type UpdateProfileInput struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

type UserService interface {
	// Profile returns the user with Messages, Following and Followers loaded.
	Profile(ctx context.Context, username string) (*domain.User, error)
	// Lookup returns the user without loading any views.
	Lookup(ctx context.Context, username string) (*domain.User, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	Update(ctx context.Context, userID int64, in UpdateProfileInput) (*domain.User, error)
	Delete(ctx context.Context, userID int64) error

	Follow(ctx context.Context, followerID int64, username string) error
	Unfollow(ctx context.Context, followerID int64, username string) error
	IsFollowing(ctx context.Context, userID, otherID int64) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error)
	Following(ctx context.Context, username string) ([]*domain.User, error)
	Followers(ctx context.Context, username string) ([]*domain.User, error)
}
