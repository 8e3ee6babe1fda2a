package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStorage persists notification records in a MongoDB collection.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage creates a Storage on the given collection.
func NewMongoStorage(coll *mongo.Collection) *MongoStorage {
	return &MongoStorage{coll: coll}
}

// EnsureIndexes creates the indexes the storage queries rely on. Call once
// at startup; index creation is idempotent.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}, {Key: "digested", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}
	return nil
}

func (s *MongoStorage) Create(ctx context.Context, rec Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert notification record: %w", err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, userID, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID, "id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find notification record: %w", err)
	}
	return &rec, nil
}

func (s *MongoStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Record, int, error) {
	filter := bson.M{
		"user_id": userID,
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": time.Now()}},
		},
	}
	if opts.OnlyUnread {
		filter["read"] = false
	}
	if opts.Category != nil {
		filter["category"] = *opts.Category
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count notification records: %w", err)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetSkip(int64(opts.offset())).SetLimit(int64(opts.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find notification records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("decode notification records: %w", err)
	}
	return records, int(total), nil
}

func (s *MongoStorage) MarkRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"read": true, "read_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("mark notification records read: %w", err)
	}
	return nil
}

func (s *MongoStorage) Delete(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.coll.DeleteMany(ctx, bson.M{"user_id": userID, "id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("delete notification records: %w", err)
	}
	return nil
}

func (s *MongoStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"read":    false,
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": time.Now()}},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("count unread notification records: %w", err)
	}
	return int(count), nil
}

func (s *MongoStorage) ListForDigest(ctx context.Context, userID string, since time.Time) ([]Record, error) {
	cursor, err := s.coll.Find(ctx, bson.M{
		"user_id":    userID,
		"read":       false,
		"digested":   false,
		"created_at": bson.M{"$gt": since},
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": time.Now()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("find digest candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode digest candidates: %w", err)
	}
	return records, nil
}

func (s *MongoStorage) MarkDigested(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"digested": true, "digested_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("mark notification records digested: %w", err)
	}
	return nil
}
