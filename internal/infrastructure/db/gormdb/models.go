package gormdb

import (
	"time"

	"github.com/warbler/warbler/internal/core/domain"
)

// Required text columns are pointers so that an empty value reaches the
// database as NULL and trips the NOT NULL constraint.

type userRow struct {
	ID             int64   `gorm:"primaryKey"`
	Username       *string `gorm:"size:255;not null;uniqueIndex"`
	Email          *string `gorm:"size:255;not null;uniqueIndex"`
	Password       *string `gorm:"not null"`
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

func (userRow) TableName() string { return "users" }

type messageRow struct {
	ID        int64     `gorm:"primaryKey"`
	Text      *string   `gorm:"not null;check:chk_messages_text_length,length(text) <= 140"`
	Timestamp time.Time `gorm:"not null"`
	UserID    int64     `gorm:"not null;index"`
	User      *userRow  `gorm:"constraint:OnDelete:CASCADE"`
}

func (messageRow) TableName() string { return "messages" }

type followRow struct {
	FollowerID int64     `gorm:"primaryKey;autoIncrement:false"`
	FollowedID int64     `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time `gorm:"not null"`
	Follower   *userRow  `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed   *userRow  `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}

func (followRow) TableName() string { return "follows" }

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toUserRow(u *domain.User) userRow {
	return userRow{
		ID:             u.ID,
		Username:       nullable(u.Username),
		Email:          nullable(u.Email),
		Password:       nullable(u.Password),
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		Bio:            u.Bio,
		Location:       u.Location,
	}
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Username:       deref(r.Username),
		Email:          deref(r.Email),
		Password:       deref(r.Password),
		ImageURL:       r.ImageURL,
		HeaderImageURL: r.HeaderImageURL,
		Bio:            r.Bio,
		Location:       r.Location,
	}
}

func usersToDomain(rows []userRow) []*domain.User {
	out := make([]*domain.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

func (r messageRow) toDomain() *domain.Message {
	return &domain.Message{
		ID:        r.ID,
		Text:      deref(r.Text),
		Timestamp: r.Timestamp,
		UserID:    r.UserID,
	}
}

func messagesToDomain(rows []messageRow) []*domain.Message {
	out := make([]*domain.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
