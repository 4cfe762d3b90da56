package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/warbler/warbler/internal/core/domain"
	"github.com/warbler/warbler/internal/core/ports"
)

const searchLimit = 50

type userService struct {
	store  ports.Store
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(store ports.Store, hasher ports.PasswordHasher, log zerolog.Logger) ports.UserService {
	return &userService{store: store, hasher: hasher, log: log}
}

func (s *userService) Profile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.Messages, err = s.store.Messages().ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("profile messages: %w", err)
	}
	for _, m := range user.Messages {
		m.User = user
	}
	if user.Following, err = s.store.Follows().Following(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("profile following: %w", err)
	}
	if user.Followers, err = s.store.Follows().Followers(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("profile followers: %w", err)
	}
	return user, nil
}

func (s *userService) Lookup(ctx context.Context, username string) (*domain.User, error) {
	return s.store.Users().FindByUsername(ctx, username)
}

func (s *userService) Search(ctx context.Context, query string) ([]*domain.User, error) {
	return s.store.Users().Search(ctx, strings.TrimSpace(query), searchLimit)
}

// Update re-checks the current password before applying any change.
func (s *userService) Update(ctx context.Context, userID int64, in ports.UpdateProfileInput) (*domain.User, error) {
	var updated *domain.User
	err := s.store.Transaction(ctx, func(ctx context.Context, tx ports.Store) error {
		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if !s.hasher.Verify(in.Password, user.Password) {
			return domain.ErrInvalidCredentials
		}

		applyProfile(user, in)
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", userID).Msg("profile updated")
	return updated, nil
}

func applyProfile(u *domain.User, in ports.UpdateProfileInput) {
	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.ImageURL != "" {
		u.ImageURL = in.ImageURL
	}
	if in.HeaderImageURL != "" {
		u.HeaderImageURL = in.HeaderImageURL
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if in.Location != "" {
		u.Location = in.Location
	}
}

func (s *userService) Delete(ctx context.Context, userID int64) error {
	err := s.store.Transaction(ctx, func(ctx context.Context, tx ports.Store) error {
		return tx.Users().Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Msg("user deleted")
	return nil
}

func (s *userService) Follow(ctx context.Context, followerID int64, username string) error {
	return s.store.Transaction(ctx, func(ctx context.Context, tx ports.Store) error {
		target, err := tx.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if target.ID == followerID {
			return domain.ErrSelfFollow
		}

		err = tx.Follows().Create(ctx, followerID, target.ID)
		if domain.IsViolation(err, domain.ViolationUnique) {
			return domain.ErrAlreadyFollowing
		}
		return err
	})
}

func (s *userService) Unfollow(ctx context.Context, followerID int64, username string) error {
	return s.store.Transaction(ctx, func(ctx context.Context, tx ports.Store) error {
		target, err := tx.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		return tx.Follows().Delete(ctx, followerID, target.ID)
	})
}

func (s *userService) IsFollowing(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.store.Follows().Exists(ctx, userID, otherID)
}

func (s *userService) IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.store.Follows().Exists(ctx, otherID, userID)
}

func (s *userService) Following(ctx context.Context, username string) ([]*domain.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.Follows().Following(ctx, user.ID)
}

func (s *userService) Followers(ctx context.Context, username string) ([]*domain.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.Follows().Followers(ctx, user.ID)
}
