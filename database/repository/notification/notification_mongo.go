package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"caretrust/database/repository"
	"caretrust/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoNotificationRepo struct {
	notifications *mongo.Collection
	alerts        *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo(db *mongo.Database) NotificationRepository {
	repo := &mongoNotificationRepo{
		notifications: db.Collection(repository.NotificationsCollection),
		alerts:        db.Collection(repository.AdminAlertsCollection),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create notification indexes: %v\n", err)
	}
	return repo
}

func (r *mongoNotificationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return err
	}
	_, err := r.alerts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *mongoNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := r.notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification for %s: %w", n.UserID, err)
	}
	return nil
}

func (r *mongoNotificationRepo) CreateAdminAlert(ctx context.Context, a *models.AdminAlert) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := r.alerts.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to insert admin alert: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.notifications.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Notification
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return out, nil
}
