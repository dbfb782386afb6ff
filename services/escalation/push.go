package escalation

import (
	"context"
	"fmt"

	"caretrust/models"

	"firebase.google.com/go/v4/messaging"
)

// Pusher delivers a stored notification to a device.
type Pusher interface {
	Push(ctx context.Context, token string, n models.Notification) error
}

// FCMPusher sends through Firebase Cloud Messaging.
type FCMPusher struct {
	Client *messaging.Client
}

func NewFCMPusher(client *messaging.Client) *FCMPusher {
	return &FCMPusher{Client: client}
}

func (p *FCMPusher) Push(ctx context.Context, token string, n models.Notification) error {
	if p.Client == nil {
		return fmt.Errorf("push: FCM client not initialised")
	}
	if _, err := p.Client.Send(ctx, BuildMessage(token, n)); err != nil {
		return fmt.Errorf("push: failed to send FCM message to %s: %w", n.UserID, err)
	}
	return nil
}

// BuildMessage maps a notification onto an FCM message. High and urgent notifications
// use the high-priority Android channel and immediate APNs delivery.
func BuildMessage(token string, n models.Notification) *messaging.Message {
	urgent := n.Priority == models.PriorityHigh || n.Priority == models.PriorityUrgent

	androidPriority, apnsPriority, channel := "normal", "5", "default"
	if urgent {
		androidPriority, apnsPriority, channel = "high", "10", "high_priority"
	}

	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: map[string]string{
			"type":           n.Type,
			"relatedId":      n.RelatedID,
			"notificationId": n.ID,
			"priority":       n.Priority,
		},
		Android: &messaging.AndroidConfig{
			Priority: androidPriority,
			Notification: &messaging.AndroidNotification{
				ChannelID: channel,
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  apnsPriority,
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}

// NopPusher drops every push. Used when push is disabled.
type NopPusher struct{}

func (NopPusher) Push(context.Context, string, models.Notification) error { return nil }
