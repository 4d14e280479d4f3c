package notification

import (
	"context"
	"fmt"

	"meetsync/utils"

	"firebase.google.com/go/v4/messaging"
)

// PushService sends FCM pushes to a per-user topic, so the scheduler never
// needs device records.
type PushService struct{}

// SendUserPush publishes a push notification to the organizer's topic.
func (p *PushService) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("push: FCM client not initialized")
	}
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = "user"
	}

	msg := &messaging.Message{
		Topic: UserTopic(userID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("push: failed to send FCM message: %w", err)
	}
	return nil
}

// UserTopic names the FCM topic a user's devices subscribe to.
func UserTopic(userID string) string {
	return "user-" + userID
}
