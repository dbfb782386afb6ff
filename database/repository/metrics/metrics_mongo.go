package metricsRepo

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

type mongoMetricsRepo struct {
	quality  *mongo.Collection
	platform *mongo.Collection
}

// NewMongoMetricsRepo returns a MetricsRepository backed by MongoDB.
func NewMongoMetricsRepo(db *mongo.Database) MetricsRepository {
	repo := &mongoMetricsRepo{
		quality:  db.Collection(repository.QualityMetricsCollection),
		platform: db.Collection(repository.PlatformMetricsCollection),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create metrics indexes: %v\n", err)
	}
	return repo
}

func (r *mongoMetricsRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.quality.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "calculatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "caregiverId", Value: 1}, {Key: "calculatedAt", Value: -1}}},
	}); err != nil {
		return err
	}
	_, err := r.platform.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "calculatedAt", Value: -1}},
	})
	return err
}

func (r *mongoMetricsRepo) SaveQualityMetrics(ctx context.Context, m *models.QualityMetrics) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CalculatedAt.IsZero() {
		m.CalculatedAt = time.Now().UTC()
	}
	if _, err := r.quality.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to insert quality metrics for %s: %w", m.CaregiverID, err)
	}
	return nil
}

func (r *mongoMetricsRepo) LatestQualityMetrics(ctx context.Context, limit int) ([]models.QualityMetrics, error) {
	ctx, cancel := repository.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "calculatedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.quality.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query quality metrics: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.QualityMetrics
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode quality metrics: %w", err)
	}
	return out, nil
}

func (r *mongoMetricsRepo) LatestForCaregiver(ctx context.Context, caregiverID string) (*models.QualityMetrics, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "calculatedAt", Value: -1}})
	var m models.QualityMetrics
	if err := r.quality.FindOne(ctx, bson.M{"caregiverId": caregiverID}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch quality metrics for %s: %w", caregiverID, err)
	}
	return &m, nil
}

func (r *mongoMetricsRepo) SavePlatformMetrics(ctx context.Context, m *models.PlatformMetrics) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CalculatedAt.IsZero() {
		m.CalculatedAt = time.Now().UTC()
	}
	if _, err := r.platform.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to insert platform metrics: %w", err)
	}
	return nil
}

func (r *mongoMetricsRepo) LatestPlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "calculatedAt", Value: -1}})
	var m models.PlatformMetrics
	if err := r.platform.FindOne(ctx, bson.M{}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch platform metrics: %w", err)
	}
	return &m, nil
}
