package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartLocalScheduler runs fn on cronspec (UTC) inside this process. It replaces the
// asynq scheduler when the service runs without Redis. Runs never overlap.
func StartLocalScheduler(ctx context.Context, cronspec string, fn func(context.Context), logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(cronspec, func() {
		logger.Info("Running scheduled metrics")
		fn(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
