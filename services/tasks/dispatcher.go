package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
)

// Dispatcher hands a task to whatever runs it.
type Dispatcher interface {
	Dispatch(ctx context.Context, task *asynq.Task) error
}

// AsynqDispatcher enqueues tasks on Redis for the worker process.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, task *asynq.Task) error {
	_, err := d.Client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	return nil
}

// InlineDispatcher runs tasks synchronously on the caller's goroutine. It backs the
// single-process memory mode and tests. Handler may be set after construction.
type InlineDispatcher struct {
	mu      sync.RWMutex
	handler asynq.Handler
}

func NewInlineDispatcher(h asynq.Handler) *InlineDispatcher {
	return &InlineDispatcher{handler: h}
}

func (d *InlineDispatcher) SetHandler(h asynq.Handler) {
	d.mu.Lock()
	d.handler = h
	d.mu.Unlock()
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, task *asynq.Task) error {
	d.mu.RLock()
	h := d.handler
	d.mu.RUnlock()
	if h == nil {
		return fmt.Errorf("no handler registered for %s", task.Type())
	}
	return h.ProcessTask(ctx, task)
}
