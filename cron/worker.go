package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"caretrust/config"
	"caretrust/services/incident"
	"caretrust/services/tasks"
	"caretrust/services/triggers"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisQueueOpt is the asynq connection for the configured queue database.
func RedisQueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewTaskMux routes every task type to its trigger. The same mux serves the asynq
// worker and the inline dispatcher.
func NewTaskMux(t *triggers.Triggers, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReviewCreated, handleReviewCreated(t, logger))
	mux.HandleFunc(tasks.TypeIncidentCreated, handleIncidentCreated(t, logger))
	mux.HandleFunc(tasks.TypeBookingUpdated, handleBookingUpdated(t))
	mux.HandleFunc(tasks.TypeMetricsScheduled, handleScheduledMetrics(t, logger))
	mux.HandleFunc(tasks.TypeMetricsRecompute, handleRecompute(t))
	return mux
}

// decode unmarshals a task payload. A payload that cannot be decoded is never retried.
func decode(task *asynq.Task, v any) error {
	if err := json.Unmarshal(task.Payload(), v); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}

func handleReviewCreated(t *triggers.Triggers, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReviewCreatedPayload
		if err := decode(task, &p); err != nil {
			return err
		}
		inc, err := t.OnReviewCreated(ctx, p.Review)
		if errors.Is(err, incident.ErrMalformedIncidentNumber) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err != nil {
			return err
		}
		if inc != nil {
			logger.Debug("Review processed", zap.String("reviewId", p.Review.ID), zap.String("incidentNumber", inc.IncidentNumber))
		}
		return nil
	}
}

func handleIncidentCreated(t *triggers.Triggers, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.IncidentCreatedPayload
		if err := decode(task, &p); err != nil {
			return err
		}
		result, err := t.OnIncidentCreated(ctx, p.Incident)
		if err != nil {
			return err
		}
		if !result.Skipped {
			logger.Info("Critical incident escalated",
				zap.String("incidentNumber", p.Incident.IncidentNumber),
				zap.Int("delivered", result.Delivered),
				zap.Int("failed", result.Failed),
			)
		}
		return nil
	}
}

func handleBookingUpdated(t *triggers.Triggers) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.BookingUpdatedPayload
		if err := decode(task, &p); err != nil {
			return err
		}
		_, err := t.OnBookingUpdated(ctx, p.Before, p.After)
		return err
	}
}

func handleScheduledMetrics(t *triggers.Triggers, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		report, err := t.OnScheduledMetrics(ctx)
		if err != nil {
			return err
		}
		logger.Info("Scheduled metrics run finished",
			zap.Int("total", report.Total),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed),
			zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
		)
		return nil
	}
}

func handleRecompute(t *triggers.Triggers) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.RecomputePayload
		if err := decode(task, &p); err != nil {
			return err
		}
		_, err := t.OnRecompute(ctx, p.CaregiverID)
		return err
	}
}

// StartWorker runs the asynq worker in background, retrying the start with backoff.
func StartWorker(ctx context.Context, redisOpt asynq.RedisClientOpt, handler asynq.Handler, concurrency int, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.QueueEvents:  6,
				tasks.QueueMetrics: 3,
				"default":          1,
			},
			Logger: logger.Sugar(),
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", zap.String("type", task.Type()), zap.Error(err))
			}),
		},
	)

	go monitorRedisConnection(ctx, redisOpt, logger)

	go func() {
		logger.Info("Starting task worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(handler)
			if err == nil {
				return
			}
			logger.Error("Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Max retry attempts reached for task worker")
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// StartScheduler registers the weekly metrics run. The cron spec is evaluated in UTC.
func StartScheduler(redisOpt asynq.RedisClientOpt, cronspec string, runTimeout time.Duration, logger *zap.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   logger.Sugar(),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Error("Failed to enqueue scheduled metrics run", zap.Error(err))
				return
			}
			logger.Info("Scheduled metrics run enqueued", zap.String("taskId", info.ID))
		},
	})

	task, err := tasks.NewScheduledMetricsTask(runTimeout)
	if err != nil {
		return nil, err
	}
	entryID, err := scheduler.Register(cronspec, task)
	if err != nil {
		return nil, fmt.Errorf("invalid metrics schedule %q: %w", cronspec, err)
	}
	if err := scheduler.Start(); err != nil {
		return nil, err
	}
	logger.Info("Metrics schedule registered", zap.String("cron", cronspec), zap.String("entryId", entryID))
	return scheduler, nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, opt asynq.RedisClientOpt, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
