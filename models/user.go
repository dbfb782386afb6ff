// models/user.go
package models

import "time"

const (
	RoleAdmin     = "admin"
	RoleCaregiver = "caregiver"
	RoleClient    = "client"
)

// User represents a platform account. Roles are managed outside this service.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
