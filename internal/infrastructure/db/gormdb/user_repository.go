package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/warbler/warbler/internal/core/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ApplyDefaults()
	row := toUserRow(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	user.ID = row.ID
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	var rows []userRow
	q := r.db.WithContext(ctx).Order("id").Limit(limit)
	if query != "" {
		q = q.Where(`LOWER(username) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(query))+"%")
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return usersToDomain(rows), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	row := toUserRow(user)
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username":         row.Username,
		"email":            row.Email,
		"password":         row.Password,
		"image_url":        row.ImageURL,
		"header_image_url": row.HeaderImageURL,
		"bio":              row.Bio,
		"location":         row.Location,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for messages and follow edges.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&userRow{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
