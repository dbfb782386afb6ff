package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"caretrust/metrics"
	"caretrust/models"
	"caretrust/services/quality"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// BatchReport summarises one scheduled run.
type BatchReport struct {
	Total       int                     `json:"total"`
	Succeeded   int                     `json:"succeeded"`
	Failed      int                     `json:"failed"`
	Failures    map[string]string       `json:"failures,omitempty"` // caregiver id -> error
	Window      quality.Window          `json:"window"`
	Platform    *models.PlatformMetrics `json:"platform,omitempty"`
	RollupError string                  `json:"rollupError,omitempty"`
	StartedAt   time.Time               `json:"startedAt"`
	FinishedAt  time.Time               `json:"finishedAt"`
}

// RunScheduled recomputes every active caregiver over the window ending now, waits for
// all of them to settle, then rolls the results up once. Individual failures are
// counted in the report; only a failure to list caregivers is returned as an error.
func (o *Orchestrator) RunScheduled(ctx context.Context) (*BatchReport, error) {
	started := o.now()
	caregivers, err := o.Users.ListActiveByRole(ctx, models.RoleCaregiver)
	if err != nil {
		return nil, fmt.Errorf("failed to list active caregivers: %w", err)
	}

	window := quality.WindowEnding(started, o.WindowDays)
	report := &BatchReport{
		Total:     len(caregivers),
		Failures:  make(map[string]string),
		Window:    window,
		StartedAt: started,
	}
	o.logger().Info("Starting scheduled metrics calculation", zap.Int("caregivers", len(caregivers)))

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(o.workers())
	for _, cg := range caregivers {
		p.Go(func() {
			err := o.computeOne(ctx, cg.ID, window)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				report.Failures[cg.ID] = err.Error()
				o.logger().Warn("Caregiver metrics failed", zap.String("caregiverId", cg.ID), zap.Error(err))
				return
			}
			report.Succeeded++
		})
	}
	p.Wait()

	o.logger().Info("Metrics calculation completed",
		zap.Int("successful", report.Succeeded),
		zap.Int("failed", report.Failed),
	)

	pm, err := o.Quality.CalculatePlatformMetrics(ctx)
	if err != nil {
		report.RollupError = err.Error()
		o.logger().Error("Platform rollup failed", zap.Error(err))
	}
	report.Platform = pm

	report.FinishedAt = o.now()
	metrics.BatchDuration.Observe(report.FinishedAt.Sub(started).Seconds())
	return report, nil
}

// computeOne bounds a single caregiver's computation. A task that outlives its timeout
// counts as failed even if the calculator ignores cancellation.
func (o *Orchestrator) computeOne(ctx context.Context, caregiverID string, window quality.Window) error {
	taskCtx, cancel := context.WithTimeout(ctx, o.taskTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic computing metrics: %v", r)
			}
		}()
		_, err := o.Quality.CalculateCaregiverMetrics(taskCtx, caregiverID, window)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-taskCtx.Done():
		select {
		case err := <-done:
			return err
		default:
		}
		return fmt.Errorf("metrics computation aborted: %w", taskCtx.Err())
	}
}
