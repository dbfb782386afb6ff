package incidentRepo

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

type mongoIncidentRepo struct {
	coll *mongo.Collection
}

// NewMongoIncidentRepo returns an IncidentRepository backed by MongoDB. It fails when the
// unique indexes cannot be built, since incident numbering and review dedupe rely on them.
func NewMongoIncidentRepo(db *mongo.Database) (IncidentRepository, error) {
	repo := &mongoIncidentRepo{coll: db.Collection(repository.IncidentsCollection)}
	if err := repo.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("failed to create incident indexes: %w", err)
	}
	return repo, nil
}

// Create inserts a new incident and fills in ID and timestamps when missing.
func (r *mongoIncidentRepo) Create(ctx context.Context, incident *models.Incident) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = now
	}
	incident.UpdatedAt = incident.CreatedAt

	if _, err := r.coll.InsertOne(ctx, incident); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert incident: %w", err)
	}
	return nil
}

func (r *mongoIncidentRepo) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	return r.findOne(ctx, bson.M{"id": id}, nil)
}

func (r *mongoIncidentRepo) GetBySourceReview(ctx context.Context, reviewID string) (*models.Incident, error) {
	return r.findOne(ctx, bson.M{"sourceReviewId": reviewID}, nil)
}

// Latest orders by createdAt descending, limit 1.
func (r *mongoIncidentRepo) Latest(ctx context.Context) (*models.Incident, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, bson.M{}, opts)
}

func (r *mongoIncidentRepo) ListByCaregiverInRange(ctx context.Context, caregiverID string, start, end time.Time) ([]models.Incident, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"caregiverId": caregiverID,
		"createdAt":   bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents for caregiver %s: %w", caregiverID, err)
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, fmt.Errorf("failed to decode incidents: %w", err)
	}
	return incidents, nil
}

func (r *mongoIncidentRepo) Update(ctx context.Context, id string, update models.IncidentUpdate) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	doc := buildUpdate(update)
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to update incident %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoIncidentRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.Incident, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if opts == nil {
		opts = options.FindOne()
	}
	var inc models.Incident
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&inc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch incident: %w", err)
	}
	return &inc, nil
}
