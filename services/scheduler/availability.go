package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"meetsync/models"
	ai "meetsync/services/intelligence"
	"meetsync/utils"

	"go.uber.org/zap"
)

const (
	maxSlotOptions  = 3
	slotStepMinutes = 30
	dateLayout      = "2006-01-02"
	clockLayout     = "15:04"
)

// stepCheckAvailability resolves the target date and computes candidate
// slots. A requested date in the past short-circuits slot computation and
// hands the conversation to the details loop for a corrected date.
func (s *DefaultSchedulerService) stepCheckAvailability(ctx context.Context, st *models.ConversationState, _ *string) (*models.InterruptRequest, error) {
	now := s.Now()
	targetDate := resolveTargetDate(st.MeetingRequest.RequestedDate, now)

	if isPastDate(targetDate, now) {
		st.DateInvalid = true
		st.AvailableSlots = nil
		st.TargetDate = targetDate
		st.CurrentStep = models.StepHumanMeetingDetails
		return nil, nil
	}
	st.DateInvalid = false

	analysis := s.resolveAvailability(ctx, st, targetDate, now)

	if analysis.ParsedRequest != nil {
		mergeParsedRequest(&st.MeetingRequest, analysis.ParsedRequest)
	}
	if analysis.TargetDate != "" {
		st.TargetDate = analysis.TargetDate
	} else {
		st.TargetDate = targetDate
	}
	st.AvailableSlots = analysis.AvailableSlots
	sortSlots(st.AvailableSlots)
	if len(st.AvailableSlots) > maxSlotOptions {
		st.AvailableSlots = st.AvailableSlots[:maxSlotOptions]
	}
	st.UnavailableAttendees = analysis.UnavailableAttendees

	if analysis.Status == models.StatusInvalidPastDate {
		st.DateInvalid = true
		st.AvailableSlots = nil
	}

	msg := analysis.ResponseMessage
	if msg == "" {
		msg = s.describeSlots(st)
	}
	st.AppendLog(models.SpeakerSystem, msg)

	st.CurrentStep = models.StepHumanMeetingDetails
	return nil, nil
}

// resolveAvailability is the oracle-primary, deterministic-fallback slot
// resolver. Malformed oracle output is repaired once (code fence strip) via
// ai.DecodeJSON; a second failure or an oracle error drops to the fallback.
func (s *DefaultSchedulerService) resolveAvailability(ctx context.Context, st *models.ConversationState, targetDate string, now time.Time) models.AvailabilityAnalysis {
	if s.Oracle != nil {
		snapshots := s.Knowledge.Snapshots(st.Attendees)
		out, err := s.Oracle.GenerateContent(ctx, s.buildAvailabilityPrompt(st, snapshots, now))
		if err == nil {
			var analysis models.AvailabilityAnalysis
			if decodeErr := ai.DecodeJSON(out, &analysis); decodeErr == nil && analysis.Status != "" {
				return analysis
			} else if decodeErr != nil {
				utils.GetLogger().Warn("oracle availability output unusable, using fallback",
					zap.String("sessionId", st.SessionID), zap.Error(decodeErr))
			}
		} else {
			utils.GetLogger().Warn("oracle availability call failed, using fallback",
				zap.String("sessionId", st.SessionID), zap.Error(err))
		}
	}
	return s.fallbackAnalysis(st, targetDate, now)
}

// fallbackAnalysis is the deterministic safety net. Attendees who are out
// of office or traveling on the target date push it forward to the next
// date everyone can attend; ordinary calendar conflicts are ignored here.
func (s *DefaultSchedulerService) fallbackAnalysis(st *models.ConversationState, targetDate string, now time.Time) models.AvailabilityAnalysis {
	analysis := models.AvailabilityAnalysis{
		Status:     models.StatusSuccess,
		TargetDate: targetDate,
	}

	unavailable := s.Knowledge.UnavailableOn(st.Attendees, targetDate)
	if len(unavailable) > 0 {
		analysis.Status = models.StatusAttendeeUnavailable
		analysis.UnavailableAttendees = unavailable
		if next, ok := s.nextOpenDate(st.Attendees, targetDate); ok {
			analysis.TargetDate = next
		}
	}

	duration := st.MeetingRequest.DurationMinutes
	if duration <= 0 {
		duration = s.DefaultDuration
	}
	analysis.AvailableSlots = s.fallbackSlots(analysis.TargetDate, duration, now)
	return analysis
}

// fallbackSlots enumerates half-hour starts across business hours on the
// given date, skipping starts at or before now when the date is today, and
// keeps the first three.
func (s *DefaultSchedulerService) fallbackSlots(date string, durationMinutes int, now time.Time) []models.TimeSlot {
	day, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		day = startOfDay(now)
	}
	isToday := day.Format(dateLayout) == now.Format(dateLayout)

	var slots []models.TimeSlot
	for hour := s.BusinessStart; hour < s.BusinessEnd; hour++ {
		for minute := 0; minute < 60; minute += slotStepMinutes {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
			if isToday && !start.After(now) {
				continue
			}
			end := start.Add(time.Duration(durationMinutes) * time.Minute)
			slots = append(slots, models.TimeSlot{
				Date:            start.Format(dateLayout),
				StartTime:       start.Format(clockLayout),
				EndTime:         end.Format(clockLayout),
				DurationMinutes: durationMinutes,
			})
			if len(slots) >= maxSlotOptions {
				return slots
			}
		}
	}
	return slots
}

// nextOpenDate scans forward from the day after the given date for the
// first date where no attendee is out of office or traveling. The search
// is bounded to two weeks.
func (s *DefaultSchedulerService) nextOpenDate(attendees []models.Attendee, date string) (string, bool) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", false
	}
	for i := 1; i <= 14; i++ {
		candidate := day.AddDate(0, 0, i).Format(dateLayout)
		if len(s.Knowledge.UnavailableOn(attendees, candidate)) == 0 {
			return candidate, true
		}
	}
	return "", false
}

// resolveTargetDate maps a possibly-relative requested date to YYYY-MM-DD.
// Anything unparseable resolves to today.
func resolveTargetDate(requested string, now time.Time) string {
	switch requested {
	case "", "today", "flexible":
		return now.Format(dateLayout)
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(dateLayout)
	}
	if d, err := time.Parse(dateLayout, requested); err == nil {
		return d.Format(dateLayout)
	}
	return now.Format(dateLayout)
}

func isPastDate(date string, now time.Time) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(dateLayout, now.Format(dateLayout))
	return d.Before(today)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// describeSlots renders the computed availability as a short human message.
func (s *DefaultSchedulerService) describeSlots(st *models.ConversationState) string {
	if len(st.UnavailableAttendees) > 0 {
		names := make([]string, len(st.UnavailableAttendees))
		for i, u := range st.UnavailableAttendees {
			names[i] = u.Name
		}
		prefix := fmt.Sprintf("%s isn't available on the requested date.", joinNames(names))
		if len(st.AvailableSlots) > 0 {
			return fmt.Sprintf("%s Everyone is free on %s instead:\n%s",
				prefix, st.TargetDate, formatSlotList(st.AvailableSlots))
		}
		return prefix + " Should I check a different day?"
	}
	if len(st.AvailableSlots) == 0 {
		return fmt.Sprintf("No availability found on %s. Should I check the next day?", st.TargetDate)
	}
	return fmt.Sprintf("Everyone's free during these times on %s:\n%s",
		st.TargetDate, formatSlotList(st.AvailableSlots))
}

// mergeParsedRequest folds the oracle's parsed view into the request,
// keeping existing values when the oracle omitted a field.
func mergeParsedRequest(dst *models.MeetingRequest, src *models.MeetingRequest) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.RequestedDate != "" {
		dst.RequestedDate = src.RequestedDate
	}
	if src.RequestedTime != "" {
		dst.RequestedTime = src.RequestedTime
	}
	if src.DurationMinutes > 0 {
		dst.DurationMinutes = src.DurationMinutes
	}
	if src.Priority != "" {
		dst.Priority = src.Priority
	}
}

// sortSlots orders slots by date then start time ascending.
func sortSlots(slots []models.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}
