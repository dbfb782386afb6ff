package userRepo

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

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection(repository.UsersCollection)}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// projection used for every read; fcm tokens are needed for pushes but password material never is.
var safeProjection = bson.M{"passwordHash": 0, "tokenHash": 0}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(safeProjection)
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// ListByRole retrieves every user holding role.
func (r *MongoUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return r.find(ctx, bson.M{"role": role})
}

// ListActiveByRole retrieves active users holding role.
func (r *MongoUserRepo) ListActiveByRole(ctx context.Context, role string) ([]models.User, error) {
	return r.find(ctx, bson.M{"role": role, "isActive": true})
}

// Upsert creates or replaces a user document keyed by id.
func (r *MongoUserRepo) Upsert(ctx context.Context, user *models.User) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": user.ID}, user, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert user with id %s: %w", user.ID, err)
	}
	return nil
}

func (r *MongoUserRepo) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(safeProjection)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("user cursor failed: %w", err)
	}
	return users, nil
}
