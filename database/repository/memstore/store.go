// Package memstore holds in-memory implementations of every repository.
// It backs STORE_DRIVER=memory and the service tests.
package memstore

// Store bundles one instance of each in-memory repository.
type Store struct {
	Users         *UserRepo
	Bookings      *BookingRepo
	Reviews       *ReviewRepo
	Incidents     *IncidentRepo
	Notifications *NotificationRepo
	Metrics       *MetricsRepo
	Counters      *SequenceStore
	Ranking       *Ranking
}

func New() *Store {
	return &Store{
		Users:         NewUserRepo(),
		Bookings:      NewBookingRepo(),
		Reviews:       NewReviewRepo(),
		Incidents:     NewIncidentRepo(),
		Notifications: NewNotificationRepo(),
		Metrics:       NewMetricsRepo(),
		Counters:      NewSequenceStore(),
		Ranking:       NewRanking(),
	}
}
