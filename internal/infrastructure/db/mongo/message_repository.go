package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warbler/warbler/internal/core/domain"
)

type MessageRepository struct {
	store *Store
}

func (r *MessageRepository) coll() *mongo.Collection {
	return r.store.db.Collection(messagesCollection)
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	switch {
	case msg.Text == "":
		return &domain.IntegrityError{Kind: domain.ViolationNotNull, Entity: "message", Field: "text"}
	case utf8.RuneCountInString(msg.Text) > domain.MaxMessageLength:
		return &domain.IntegrityError{Kind: domain.ViolationCheck, Entity: "message", Field: "text"}
	}

	ok, err := r.store.userExists(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.IntegrityError{Kind: domain.ViolationForeignKey, Entity: "message", Field: "user_id"}
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	id, err := r.store.nextID(ctx, messagesCollection)
	if err != nil {
		return err
	}

	doc := mongoMessage{ID: id, Text: msg.Text, Timestamp: msg.Timestamp.UTC(), UserID: msg.UserID}
	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	msg.ID = id
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	var mm mongoMessage
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&mm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *MessageRepository) Timeline(ctx context.Context, userIDs []int64, limit int) ([]*domain.Message, error) {
	if len(userIDs) == 0 {
		return []*domain.Message{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}}, opts)
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Message, error) {
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	var docs []mongoMessage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	out := make([]*domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
