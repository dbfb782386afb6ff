package notificationRepo

import (
	"context"

	"caretrust/models"
)

// NotificationRepository writes inbox notifications and admin alerts. Both are insert-only here.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	CreateAdminAlert(ctx context.Context, a *models.AdminAlert) error
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}
