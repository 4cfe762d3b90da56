package ports

import (
	"context"
	"time"

	"github.com/warbler/warbler/internal/core/domain"
)

// SignupInput carries the fields accepted at account creation.
type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	// Authenticate returns (nil, nil) for an unknown username or a wrong
	// password alike; errors are reserved for infrastructure failures.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}
