package escalation

import (
	"context"
	"sync/atomic"

	"caretrust/metrics"
	"caretrust/models"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type recipient struct {
	UserID  string
	Token   string
	Subject bool // the person the incident is about, as opposed to an admin
}

func recipientsFromUsers(users []models.User) []recipient {
	out := make([]recipient, 0, len(users))
	for _, u := range users {
		out = append(out, recipient{UserID: u.ID, Token: u.FCMToken})
	}
	return out
}

// fanOut writes one notification per recipient and settles all of them before
// returning. A failed write never stops the others.
func (s *DefaultEscalationService) fanOut(
	ctx context.Context,
	recipients []recipient,
	build func(r recipient) models.Notification,
	result *FanOutResult,
) {
	var delivered, failed, pushAttempted, pushDelivered, pushFailed atomic.Int64

	p := pool.New().WithMaxGoroutines(s.maxConcurrency())
	for _, r := range recipients {
		p.Go(func() {
			n := build(r)
			if err := s.Notifications.CreateNotification(ctx, &n); err != nil {
				failed.Add(1)
				metrics.NotificationDeliveries.WithLabelValues("inbox", "failed").Inc()
				s.logger().Warn("Notification write failed",
					zap.String("userId", r.UserID),
					zap.String("type", n.Type),
					zap.Error(err),
				)
				return
			}
			delivered.Add(1)
			metrics.NotificationDeliveries.WithLabelValues("inbox", "delivered").Inc()

			if r.Token == "" || s.Pusher == nil {
				return
			}
			pushAttempted.Add(1)
			if err := s.Pusher.Push(ctx, r.Token, n); err != nil {
				pushFailed.Add(1)
				metrics.NotificationDeliveries.WithLabelValues("push", "failed").Inc()
				s.logger().Debug("Push failed", zap.String("userId", r.UserID), zap.Error(err))
				return
			}
			pushDelivered.Add(1)
			metrics.NotificationDeliveries.WithLabelValues("push", "delivered").Inc()
		})
	}
	p.Wait()

	result.Attempted += len(recipients)
	result.Delivered += int(delivered.Load())
	result.Failed += int(failed.Load())
	result.PushAttempted += int(pushAttempted.Load())
	result.PushDelivered += int(pushDelivered.Load())
	result.PushFailed += int(pushFailed.Load())
}
