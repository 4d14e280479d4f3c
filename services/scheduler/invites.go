package scheduler

import (
	"context"
	"fmt"
	"strings"

	"meetsync/models"
	"meetsync/utils"

	"go.uber.org/zap"
)

// stepSendInvites hands the finalized record to the invite collaborator.
// The workflow completes whatever the outcome; a success acknowledgment is
// only shown when the collaborator confirms emails actually went out.
func (s *DefaultSchedulerService) stepSendInvites(ctx context.Context, st *models.ConversationState, _ *string) (*models.InterruptRequest, error) {
	if st.SelectedSlot == nil {
		st.CurrentStep = models.StepHumanMeetingDetails
		return nil, nil
	}
	rec := s.buildMeetingRecord(st)

	result, err := s.Dispatcher.SendInvites(ctx, rec)
	if err != nil {
		utils.GetLogger().Error("invite dispatch failed",
			zap.String("sessionId", st.SessionID), zap.Error(err))
		st.AppendLog(models.SpeakerSystem,
			"I couldn't send the invitations due to a calendar service error. Please try booking again later.")
		st.CurrentStep = models.StepComplete
		return nil, nil
	}

	rec.EventID = result.EventID
	rec.EventLink = result.EventLink
	rec.EmailsSent = result.EmailsSent
	s.archiveMeeting(ctx, rec)

	if result.Status == "success" && result.EmailsSent {
		st.AppendLog(models.SpeakerSystem, successAck(rec))
	} else {
		detail := result.Error
		if detail == "" {
			detail = "the invitation emails could not be sent"
		}
		st.AppendLog(models.SpeakerSystem,
			fmt.Sprintf("The meeting was processed but %s. You may want to notify attendees directly.", detail))
	}

	st.CurrentStep = models.StepComplete
	return nil, nil
}

// buildMeetingRecord assembles the dispatch payload from the finalized
// conversation state.
func (s *DefaultSchedulerService) buildMeetingRecord(st *models.ConversationState) *models.MeetingRecord {
	emails := make([]string, 0, len(st.Attendees))
	for _, a := range st.Attendees {
		emails = append(emails, a.Email)
	}

	location := "Online"
	if st.MeetingFormat == models.FormatInPerson && st.MeetingRoom != nil {
		location = st.MeetingRoom.CabinID
	}

	title := st.MeetingTitle
	if title == "" {
		title = "Meeting"
	}
	description := st.MeetingDescription
	if description == "" && st.MeetingAgenda != "" {
		description = "Agenda: " + st.MeetingAgenda
	}

	return &models.MeetingRecord{
		SessionID:       st.SessionID,
		UserID:          st.UserID,
		Title:           title,
		Date:            st.SelectedSlot.Date,
		StartTime:       st.SelectedSlot.StartTime,
		EndTime:         st.SelectedSlot.EndTime,
		DurationMinutes: st.SelectedSlot.DurationMinutes,
		AttendeeEmails:  emails,
		Location:        location,
		Description:     description,
		CreatedAt:       s.Now(),
	}
}

func (s *DefaultSchedulerService) archiveMeeting(ctx context.Context, rec *models.MeetingRecord) {
	if s.Archive == nil {
		return
	}
	if err := s.Archive.Insert(ctx, rec); err != nil {
		utils.GetLogger().Warn("failed to archive meeting record",
			zap.String("sessionId", rec.SessionID), zap.Error(err))
	}
}

func successAck(rec *models.MeetingRecord) string {
	var b strings.Builder
	b.WriteString("Invites sent successfully!\n\nMeeting Details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", rec.Title)
	fmt.Fprintf(&b, "- Date: %s\n", rec.Date)
	fmt.Fprintf(&b, "- Time: %s - %s\n", rec.StartTime, rec.EndTime)
	fmt.Fprintf(&b, "- Attendees: %s\n", strings.Join(rec.AttendeeEmails, ", "))
	fmt.Fprintf(&b, "- Location: %s", rec.Location)
	if rec.EventLink != "" {
		fmt.Fprintf(&b, "\n- Event link: %s", rec.EventLink)
	}
	return b.String()
}
