package counterRepo

import (
	"context"
	"errors"
	"fmt"

	"caretrust/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type counterDoc struct {
	Key string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// MongoSequenceStore keeps counters as {_id, seq} documents and relies on
// single-document atomicity of findOneAndUpdate.
type MongoSequenceStore struct {
	coll *mongo.Collection
}

func NewMongoSequenceStore(db *mongo.Database) *MongoSequenceStore {
	return &MongoSequenceStore{coll: db.Collection(repository.CountersCollection)}
}

func (s *MongoSequenceStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check counter %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *MongoSequenceStore) SeedIfAbsent(ctx context.Context, key string, value int64) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$setOnInsert": bson.M{"seq": value}},
		options.Update().SetUpsert(true),
	)
	// two concurrent upserts on the same _id: the loser sees a duplicate key, which means seeded.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to seed counter %s: %w", key, err)
	}
	return nil
}

func (s *MongoSequenceStore) Increment(ctx context.Context, key string) (int64, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counterDoc
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": key}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("counter %s vanished during increment", key)
		}
		return 0, fmt.Errorf("failed to increment counter %s: %w", key, err)
	}
	return doc.Seq, nil
}
