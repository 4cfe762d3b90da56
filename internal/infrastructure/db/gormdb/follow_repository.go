package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/warbler/warbler/internal/core/domain"
)

type FollowRepository struct {
	db *gorm.DB
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followedID int64) error {
	row := followRow{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followedID int64) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&followRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&followRow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("follow exists: %w", err)
	}
	return n > 0, nil
}

func (r *FollowRepository) Following(ctx context.Context, userID int64) ([]*domain.User, error) {
	return r.joined(ctx, "follows.followed_id = users.id", "follows.follower_id = ?", userID)
}

func (r *FollowRepository) Followers(ctx context.Context, userID int64) ([]*domain.User, error) {
	return r.joined(ctx, "follows.follower_id = users.id", "follows.followed_id = ?", userID)
}

func (r *FollowRepository) joined(ctx context.Context, on, where string, userID int64) ([]*domain.User, error) {
	var rows []userRow
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON "+on).
		Where(where, userID).
		Order("users.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("follow list: %w", err)
	}
	return usersToDomain(rows), nil
}
