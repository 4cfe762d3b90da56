package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warbler/warbler/internal/core/ports"
)

const (
	usersCollection    = "users"
	messagesCollection = "messages"
	followsCollection  = "follows"
	countersCollection = "counters"
)

// Store implements ports.Store on MongoDB. Constraints a relational engine
// would enforce (uniqueness, required fields, references, cascades) are
// enforced here through unique indexes and explicit checks. Transactions need
// a replica set deployment.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Users() ports.UserRepository       { return &UserRepository{store: s} }
func (s *Store) Messages() ports.MessageRepository { return &MessageRepository{store: s} }
func (s *Store) Follows() ports.FollowRepository   { return &FollowRepository{store: s} }

// Transaction runs fn inside a session transaction. The ctx handed to fn
// carries the session, so every repository call made with it joins the
// transaction.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	sess, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
		followsCollection: {
			{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "followed_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "followed_id", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", coll, err)
		}
	}
	return nil
}

// nextID allocates the next int64 identifier for a collection.
func (s *Store) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.db.Collection(countersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next id %s: %w", name, err)
	}
	return counter.Seq, nil
}

func (s *Store) userExists(ctx context.Context, id int64) (bool, error) {
	n, err := s.db.Collection(usersCollection).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return n > 0, nil
}
