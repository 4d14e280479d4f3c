package notification

import (
	"context"
	"fmt"

	"meetsync/models"
	"meetsync/utils"

	"go.uber.org/zap"
)

// DefaultInviteService is the production InviteDispatcher: it books the
// event through the calendar collaborator, pushes a confirmation to the
// organizer, and schedules a reminder. Push and reminder failures are
// logged, never surfaced. Only the calendar outcome matters to the
// workflow.
type DefaultInviteService struct {
	Calendar  *CalendarClient
	Push      *PushService
	Reminders *ReminderScheduler
}

func (s *DefaultInviteService) SendInvites(ctx context.Context, rec *models.MeetingRecord) (*models.DispatchResult, error) {
	logger := utils.GetLogger()

	result, err := s.Calendar.CreateEvent(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("send invites: %w", err)
	}

	if result.Status != "success" || !result.EmailsSent {
		logger.Warn("calendar dispatch incomplete",
			zap.String("sessionId", rec.SessionID),
			zap.String("status", result.Status),
			zap.Bool("emailsSent", result.EmailsSent))
		return result, nil
	}

	if s.Push != nil {
		body := fmt.Sprintf("%s on %s at %s. Invites sent to %d attendee(s).",
			rec.Title, rec.Date, rec.StartTime, len(rec.AttendeeEmails))
		if err := s.Push.SendUserPush(ctx, rec.UserID, "Meeting booked", body, map[string]string{
			"type":      "meeting_booked",
			"sessionId": rec.SessionID,
		}); err != nil {
			logger.Warn("failed to push booking notification", zap.Error(err))
		}
	}

	if s.Reminders != nil {
		if err := s.Reminders.Schedule(rec); err != nil {
			logger.Warn("failed to schedule reminder", zap.Error(err))
		}
	}

	return result, nil
}
