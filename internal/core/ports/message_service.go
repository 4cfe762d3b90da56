package ports

import (
	"context"

	"github.com/warbler/warbler/internal/core/domain"
)

type MessageService interface {
	Post(ctx context.Context, userID int64, text string) (*domain.Message, error)
	Get(ctx context.Context, id int64) (*domain.Message, error)
	ListByUser(ctx context.Context, username string) ([]*domain.Message, error)
	// Delete removes a message owned by userID; other owners get domain.ErrForbidden.
	Delete(ctx context.Context, userID, messageID int64) error
	// Timeline returns the user's and their followees' messages, newest first.
	Timeline(ctx context.Context, userID int64, limit int) ([]*domain.Message, error)
}
