package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/warbler/warbler/internal/core/domain"
	"github.com/warbler/warbler/internal/core/ports"
)

const maxTimelineLimit = 100

type messageService struct {
	store ports.Store
	log   zerolog.Logger
}

// NewMessageService returns a MessageService implementation.
func NewMessageService(store ports.Store, log zerolog.Logger) ports.MessageService {
	return &messageService{store: store, log: log}
}

// Post stores a message for userID. The store enforces the text bound and
// the existence of the owner.
func (s *messageService) Post(ctx context.Context, userID int64, text string) (*domain.Message, error) {
	msg := &domain.Message{Text: text, UserID: userID}
	err := s.store.Transaction(ctx, func(ctx context.Context, tx ports.Store) error {
		return tx.Messages().Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("message_id", msg.ID).Int64("user_id", userID).Msg("message posted")
	return msg, nil
}

func (s *messageService) Get(ctx context.Context, id int64) (*domain.Message, error) {
	msg, err := s.store.Messages().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.store.Users().FindByID(ctx, msg.UserID)
	if err != nil {
		return nil, fmt.Errorf("message owner: %w", err)
	}
	msg.User = owner
	return msg, nil
}

func (s *messageService) ListByUser(ctx context.Context, username string) ([]*domain.Message, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.Messages().ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		m.User = user
	}
	return msgs, nil
}

func (s *messageService) Delete(ctx context.Context, userID, messageID int64) error {
	err := s.store.Transaction(ctx, func(ctx context.Context, tx ports.Store) error {
		msg, err := tx.Messages().FindByID(ctx, messageID)
		if err != nil {
			return err
		}
		if msg.UserID != userID {
			return domain.ErrForbidden
		}
		return tx.Messages().Delete(ctx, messageID)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("message_id", messageID).Int64("user_id", userID).Msg("message deleted")
	return nil
}

func (s *messageService) Timeline(ctx context.Context, userID int64, limit int) ([]*domain.Message, error) {
	if limit <= 0 || limit > maxTimelineLimit {
		limit = maxTimelineLimit
	}

	self, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.store.Follows().Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("timeline following: %w", err)
	}

	authors := make(map[int64]*domain.User, len(following)+1)
	ids := make([]int64, 0, len(following)+1)
	authors[self.ID] = self
	ids = append(ids, self.ID)
	for _, u := range following {
		authors[u.ID] = u
		ids = append(ids, u.ID)
	}

	msgs, err := s.store.Messages().Timeline(ctx, ids, limit)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		m.User = authors[m.UserID]
	}
	return msgs, nil
}
