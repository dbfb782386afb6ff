package userRepo

import (
	"context"

	"caretrust/models"
)

// UserRepository defines read access to platform accounts.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// ListByRole retrieves every user holding role.
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	// ListActiveByRole retrieves users holding role whose isActive flag is set.
	ListActiveByRole(ctx context.Context, role string) ([]models.User, error)
	// Upsert creates or replaces a user (used when mirroring accounts).
	Upsert(ctx context.Context, user *models.User) error
}
