package mongo

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/warbler/warbler/internal/core/domain"
)

type mongoUser struct {
	ID             int64  `bson:"_id"`
	Username       string `bson:"username"`
	Email          string `bson:"email"`
	Password       string `bson:"password"`
	ImageURL       string `bson:"image_url"`
	HeaderImageURL string `bson:"header_image_url"`
	Bio            string `bson:"bio,omitempty"`
	Location       string `bson:"location,omitempty"`
}

type mongoMessage struct {
	ID        int64     `bson:"_id"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
	UserID    int64     `bson:"user_id"`
}

type mongoFollow struct {
	FollowerID int64     `bson:"follower_id"`
	FollowedID int64     `bson:"followed_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		Bio:            u.Bio,
		Location:       u.Location,
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		Password:       m.Password,
		ImageURL:       m.ImageURL,
		HeaderImageURL: m.HeaderImageURL,
		Bio:            m.Bio,
		Location:       m.Location,
	}
}

func (m mongoMessage) toDomain() *domain.Message {
	return &domain.Message{
		ID:        m.ID,
		Text:      m.Text,
		Timestamp: m.Timestamp.UTC(),
		UserID:    m.UserID,
	}
}

// requireUserFields mirrors the NOT NULL columns of the relational schema.
func requireUserFields(u *domain.User) error {
	for _, f := range []struct{ name, value string }{
		{"username", u.Username},
		{"email", u.Email},
		{"password", u.Password},
	} {
		if f.value == "" {
			return &domain.IntegrityError{Kind: domain.ViolationNotNull, Entity: "user", Field: f.name}
		}
	}
	return nil
}

// duplicateUser maps a duplicate key error to the offending user field.
func duplicateUser(err error) error {
	field := ""
	for _, f := range []string{"username", "email"} {
		if strings.Contains(err.Error(), f+"_1") {
			field = f
			break
		}
	}
	return &domain.IntegrityError{Kind: domain.ViolationUnique, Entity: "user", Field: field, Err: err}
}

func isDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
