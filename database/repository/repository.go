package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that match no document.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate record")

// Collection names shared by every backend.
const (
	UsersCollection           = "users"
	BookingsCollection        = "bookings"
	ReviewsCollection         = "reviews"
	IncidentsCollection       = "incidents"
	NotificationsCollection   = "notifications"
	AdminAlertsCollection     = "admin_alerts"
	QualityMetricsCollection  = "quality_metrics"
	PlatformMetricsCollection = "platform_metrics"
	CountersCollection        = "counters"
)

// DefaultTimeout bounds a single repository call.
const DefaultTimeout = 5 * time.Second

// WithTimeout derives a bounded context for one query.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
