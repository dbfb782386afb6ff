package tasks

import (
	"context"

	"caretrust/models"
)

// Publisher turns domain events into tasks.
type Publisher struct {
	Dispatcher Dispatcher
}

func NewPublisher(d Dispatcher) *Publisher {
	return &Publisher{Dispatcher: d}
}

func (p *Publisher) PublishReviewCreated(ctx context.Context, review models.Review) error {
	task, err := NewReviewCreatedTask(review)
	if err != nil {
		return err
	}
	return p.Dispatcher.Dispatch(ctx, task)
}

func (p *Publisher) PublishIncidentCreated(ctx context.Context, incident models.Incident) error {
	task, err := NewIncidentCreatedTask(incident)
	if err != nil {
		return err
	}
	return p.Dispatcher.Dispatch(ctx, task)
}

func (p *Publisher) PublishBookingUpdated(ctx context.Context, before, after models.Booking) error {
	task, err := NewBookingUpdatedTask(before, after)
	if err != nil {
		return err
	}
	return p.Dispatcher.Dispatch(ctx, task)
}

func (p *Publisher) RequestRecompute(ctx context.Context, caregiverID string) error {
	task, err := NewRecomputeTask(caregiverID)
	if err != nil {
		return err
	}
	return p.Dispatcher.Dispatch(ctx, task)
}

func (p *Publisher) RequestScheduledRun(ctx context.Context) error {
	task, err := NewScheduledMetricsTask(0)
	if err != nil {
		return err
	}
	return p.Dispatcher.Dispatch(ctx, task)
}
