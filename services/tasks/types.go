package tasks

import (
	"encoding/json"
	"time"

	"caretrust/models"

	"github.com/hibiken/asynq"
)

// Task type names. Each is handled by exactly one trigger.
const (
	TypeReviewCreated    = "review:created"
	TypeIncidentCreated  = "incident:created"
	TypeBookingUpdated   = "booking:updated"
	TypeMetricsScheduled = "metrics:scheduled"
	TypeMetricsRecompute = "metrics:recompute"
)

const (
	QueueEvents  = "events"
	QueueMetrics = "metrics"
)

type ReviewCreatedPayload struct {
	Review models.Review `json:"review"`
}

type IncidentCreatedPayload struct {
	Incident models.Incident `json:"incident"`
}

type BookingUpdatedPayload struct {
	Before models.Booking `json:"before"`
	After  models.Booking `json:"after"`
}

type RecomputePayload struct {
	CaregiverID string `json:"caregiverId"`
}

func newTask(typename string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, b, opts...), nil
}

// NewReviewCreatedTask keys the task by review id so a re-ingested review is enqueued once.
func NewReviewCreatedTask(review models.Review) (*asynq.Task, error) {
	return newTask(TypeReviewCreated, ReviewCreatedPayload{Review: review},
		asynq.Queue(QueueEvents),
		asynq.MaxRetry(5),
		asynq.TaskID("review:"+review.ID),
	)
}

func NewIncidentCreatedTask(incident models.Incident) (*asynq.Task, error) {
	return newTask(TypeIncidentCreated, IncidentCreatedPayload{Incident: incident},
		asynq.Queue(QueueEvents),
		asynq.MaxRetry(5),
		asynq.TaskID("incident:"+incident.ID),
	)
}

func NewBookingUpdatedTask(before, after models.Booking) (*asynq.Task, error) {
	return newTask(TypeBookingUpdated, BookingUpdatedPayload{Before: before, After: after},
		asynq.Queue(QueueEvents),
		asynq.MaxRetry(3),
	)
}

// NewScheduledMetricsTask is the weekly batch run. A run is never retried automatically.
func NewScheduledMetricsTask(timeout time.Duration) (*asynq.Task, error) {
	opts := []asynq.Option{asynq.Queue(QueueMetrics), asynq.MaxRetry(0)}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}
	return asynq.NewTask(TypeMetricsScheduled, nil, opts...), nil
}

func NewRecomputeTask(caregiverID string) (*asynq.Task, error) {
	return newTask(TypeMetricsRecompute, RecomputePayload{CaregiverID: caregiverID},
		asynq.Queue(QueueMetrics),
		asynq.MaxRetry(1),
	)
}
