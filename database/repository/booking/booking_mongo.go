package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caretrust/database/repository"
	"caretrust/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by MongoDB.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	repo := &mongoBookingRepo{coll: db.Collection(repository.BookingsCollection)}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *mongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "caregiverId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *mongoBookingRepo) ListByCaregiverInRange(ctx context.Context, caregiverID string, start, end time.Time) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"caregiverId": caregiverID,
		"createdAt":   bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for caregiver %s: %w", caregiverID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) Upsert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	stampUpdatedAt(booking, time.Now().UTC())
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": booking.ID}, booking, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert booking %s: %w", booking.ID, err)
	}
	return nil
}

// stampUpdatedAt fills UpdatedAt only when the caller left it unset, so an event's own
// transition time survives the write.
func stampUpdatedAt(booking *models.Booking, now time.Time) {
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = now
	}
}
