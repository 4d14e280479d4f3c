package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"meetsync/models"

	"github.com/hibiken/asynq"
)

// TypeReminderSend is the asynq task type for meeting reminders.
const TypeReminderSend = "reminder:send"

// ReminderScheduler enqueues reminder tasks to fire shortly before a
// meeting starts.
type ReminderScheduler struct {
	Client *asynq.Client
	Lead   time.Duration
}

func NewReminderScheduler(opts asynq.RedisClientOpt, lead time.Duration) *ReminderScheduler {
	return &ReminderScheduler{Client: asynq.NewClient(opts), Lead: lead}
}

// Schedule registers a reminder for the meeting. Meetings starting within
// the lead window get no reminder.
func (r *ReminderScheduler) Schedule(rec *models.MeetingRecord) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", rec.Date+" "+rec.StartTime, time.Local)
	if err != nil {
		return fmt.Errorf("reminder: parse meeting start: %w", err)
	}
	fireAt := start.Add(-r.Lead)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(models.ReminderPayload{
		SessionID: rec.SessionID,
		UserID:    rec.UserID,
		Title:     rec.Title,
		Body:      fmt.Sprintf("%s starts at %s (%s)", rec.Title, rec.StartTime, rec.Location),
		FireDate:  fireAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("reminder: marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	if _, err := r.Client.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("reminder: enqueue: %w", err)
	}
	return nil
}
