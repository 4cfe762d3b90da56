package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warbler/warbler/internal/core/domain"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) coll() *mongo.Collection {
	return r.store.db.Collection(usersCollection)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ApplyDefaults()
	if err := requireUserFields(user); err != nil {
		return err
	}

	id, err := r.store.nextID(ctx, usersCollection)
	if err != nil {
		return err
	}
	doc := toMongoUser(user)
	doc.ID = id

	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		if isDuplicate(err) {
			return duplicateUser(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll().FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	filter := bson.M{}
	if query != "" {
		filter["username"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))
	return r.findMany(ctx, filter, opts)
}

func (r *UserRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := requireUserFields(user); err != nil {
		return err
	}
	doc := toMongoUser(user)
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": user.ID}, doc)
	if err != nil {
		if isDuplicate(err) {
			return duplicateUser(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user and cascades to its messages and follow edges.
// Call it inside Store.Transaction to make the cascade atomic.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}

	if _, err := r.store.db.Collection(messagesCollection).DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return fmt.Errorf("delete user messages: %w", err)
	}
	edges := bson.M{"$or": bson.A{bson.M{"follower_id": id}, bson.M{"followed_id": id}}}
	if _, err := r.store.db.Collection(followsCollection).DeleteMany(ctx, edges); err != nil {
		return fmt.Errorf("delete user follows: %w", err)
	}
	return nil
}
