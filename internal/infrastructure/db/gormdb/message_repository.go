package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warbler/warbler/internal/core/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	row := messageRow{
		Text:      nullable(msg.Text),
		Timestamp: msg.Timestamp,
		UserID:    msg.UserID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	msg.ID = row.ID
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	var row messageRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, domain.ErrMessageNotFound)
	}
	return row.toDomain(), nil
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Message, error) {
	var rows []messageRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messagesToDomain(rows), nil
}

func (r *MessageRepository) Timeline(ctx context.Context, userIDs []int64, limit int) ([]*domain.Message, error) {
	if len(userIDs) == 0 {
		return []*domain.Message{}, nil
	}
	var rows []messageRow
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	return messagesToDomain(rows), nil
}

func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&messageRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
