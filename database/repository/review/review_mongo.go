package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caretrust/database/repository"
	"caretrust/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo returns a ReviewRepository backed by MongoDB. The unique id index
// is what turns a redelivered review into ErrDuplicate, so building it must succeed.
func NewMongoReviewRepo(db *mongo.Database) (ReviewRepository, error) {
	repo := &mongoReviewRepo{coll: db.Collection(repository.ReviewsCollection)}
	if err := repo.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("failed to create review indexes: %w", err)
	}
	return repo, nil
}

func (r *mongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "revieweeId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *mongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *mongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var rev models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch review %s: %w", id, err)
	}
	return &rev, nil
}

func (r *mongoReviewRepo) ListByRevieweeInRange(ctx context.Context, revieweeID string, start, end time.Time) ([]models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"revieweeId": revieweeID,
		"createdAt":  bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for %s: %w", revieweeID, err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}
