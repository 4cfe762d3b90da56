package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warbler/warbler/internal/core/domain"
)

type FollowRepository struct {
	store *Store
}

func (r *FollowRepository) coll() *mongo.Collection {
	return r.store.db.Collection(followsCollection)
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followedID int64) error {
	for _, id := range []int64{followerID, followedID} {
		ok, err := r.store.userExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.IntegrityError{Kind: domain.ViolationForeignKey, Entity: "follow"}
		}
	}

	doc := mongoFollow{FollowerID: followerID, FollowedID: followedID, CreatedAt: time.Now().UTC()}
	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		if isDuplicate(err) {
			return &domain.IntegrityError{Kind: domain.ViolationUnique, Entity: "follow", Field: "follower_id,followed_id", Err: err}
		}
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followedID int64) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"follower_id": followerID, "followed_id": followedID})
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	n, err := r.coll().CountDocuments(ctx,
		bson.M{"follower_id": followerID, "followed_id": followedID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("follow exists: %w", err)
	}
	return n > 0, nil
}

func (r *FollowRepository) Following(ctx context.Context, userID int64) ([]*domain.User, error) {
	return r.endpoints(ctx, bson.M{"follower_id": userID}, func(f mongoFollow) int64 { return f.FollowedID })
}

func (r *FollowRepository) Followers(ctx context.Context, userID int64) ([]*domain.User, error) {
	return r.endpoints(ctx, bson.M{"followed_id": userID}, func(f mongoFollow) int64 { return f.FollowerID })
}

// endpoints resolves the users on the far side of the matching edges.
func (r *FollowRepository) endpoints(ctx context.Context, filter bson.M, pick func(mongoFollow) int64) ([]*domain.User, error) {
	cur, err := r.coll().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find follows: %w", err)
	}
	var edges []mongoFollow
	if err := cur.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("decode follows: %w", err)
	}
	if len(edges) == 0 {
		return []*domain.User{}, nil
	}

	ids := make([]int64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, pick(e))
	}
	users := &UserRepository{store: r.store}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return users.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
}
