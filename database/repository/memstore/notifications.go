package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"caretrust/models"

	"github.com/google/uuid"
)

type NotificationRepo struct {
	mu            sync.RWMutex
	notifications []models.Notification
	alerts        []models.AdminAlert
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *NotificationRepo) CreateAdminAlert(_ context.Context, a *models.AdminAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.alerts = append(r.alerts, *a)
	return nil
}

func (r *NotificationRepo) ListForUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Notifications returns every stored notification in write order.
func (r *NotificationRepo) Notifications() []models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Notification(nil), r.notifications...)
}

// AdminAlerts returns every stored admin alert in write order.
func (r *NotificationRepo) AdminAlerts() []models.AdminAlert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.AdminAlert(nil), r.alerts...)
}
