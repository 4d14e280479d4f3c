package scheduler

import (
	"context"
	"strconv"
	"strings"

	"meetsync/models"
	ai "meetsync/services/intelligence"
	"meetsync/utils"

	"go.uber.org/zap"
)

// greetings that carry no scheduling intent on their own.
var greetingWords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "good morning": true,
	"good afternoon": true, "good evening": true, "yo": true,
}

// stepParseRequest extracts attendees and basic meeting facts from the raw
// request. It suspends with a follow-up when no attendee can be resolved;
// otherwise it acknowledges and advances to availability checking.
func (s *DefaultSchedulerService) stepParseRequest(ctx context.Context, st *models.ConversationState, input *string) (*models.InterruptRequest, error) {
	raw := st.MeetingRequest.RawRequest
	if input != nil {
		raw = *input
		st.MeetingRequest.RawRequest = raw
	}

	if isGreeting(raw) {
		prompt := "Hello! I can help you schedule a meeting. Who would you like to meet with?"
		st.AppendLog(models.SpeakerSystem, prompt)
		return s.newInterrupt(st, prompt, nil), nil
	}

	extracted := s.extractRequest(ctx, raw)
	s.supplementExtraction(&extracted, raw)

	if extracted.RequestedDate != "" {
		st.MeetingRequest.RequestedDate = extracted.RequestedDate
	}
	if extracted.RequestedTime != "" {
		st.MeetingRequest.RequestedTime = extracted.RequestedTime
	}
	if extracted.DurationMinutes > 0 {
		st.MeetingRequest.DurationMinutes = extracted.DurationMinutes
	}
	if extracted.Urgency == "urgent" {
		st.MeetingRequest.Priority = "high"
	}

	if len(extracted.AttendeeNames) > 0 {
		st.Attendees = s.Knowledge.Lookup(extracted.AttendeeNames)
	}

	if len(st.Attendees) == 0 {
		prompt := "I couldn't identify the attendees. Could you please specify who should attend?"
		if extracted.FollowUpQuestion != "" {
			prompt = extracted.FollowUpQuestion
		}
		st.AppendLog(models.SpeakerSystem, prompt)
		return s.newInterrupt(st, prompt, nil), nil
	}

	names := make([]string, len(st.Attendees))
	for i, a := range st.Attendees {
		names[i] = a.Name
	}
	ack := "I'll coordinate schedules for " + joinNames(names) + "."
	if st.MeetingRequest.Priority == "high" {
		ack = "Prioritizing this urgent meeting with " + joinNames(names) + "."
	}
	st.AppendLog(models.SpeakerSystem, ack)

	st.CurrentStep = models.StepCheckAvailability
	return nil, nil
}

// extractRequest runs the oracle extraction with a zero-value fallback when
// the oracle is unavailable or returns output that cannot be repaired.
func (s *DefaultSchedulerService) extractRequest(ctx context.Context, raw string) models.ExtractedRequest {
	var extracted models.ExtractedRequest
	if s.Oracle == nil {
		return extracted
	}
	out, err := s.Oracle.GenerateContent(ctx, buildExtractionPrompt(raw, s.Now()))
	if err != nil {
		utils.GetLogger().Warn("oracle extraction failed", zap.Error(err))
		return models.ExtractedRequest{}
	}
	if err := ai.DecodeJSON(out, &extracted); err != nil {
		utils.GetLogger().Warn("oracle extraction returned unusable output", zap.Error(err))
		return models.ExtractedRequest{}
	}
	return extracted
}

// supplementExtraction fills extraction gaps deterministically: directory
// names found in the text, relative or absolute dates, and durations. This
// keeps the parse step functional when the oracle is down.
func (s *DefaultSchedulerService) supplementExtraction(extracted *models.ExtractedRequest, raw string) {
	if len(extracted.AttendeeNames) == 0 {
		extracted.AttendeeNames = s.Knowledge.MatchNamesIn(raw)
	}
	lower := strings.ToLower(raw)
	if extracted.RequestedDate == "" {
		if date, ok := extractDate(lower); ok {
			extracted.RequestedDate = date
		}
	}
	if extracted.DurationMinutes == 0 {
		if m := durationRe.FindStringSubmatch(lower); m != nil {
			if mins, err := strconv.Atoi(m[1]); err == nil {
				extracted.DurationMinutes = mins
			}
		} else if m := hourRe.FindStringSubmatch(lower); m != nil {
			if hours, err := strconv.Atoi(m[1]); err == nil {
				extracted.DurationMinutes = hours * 60
			}
		}
	}
	if extracted.Urgency == "" && containsAny(lower, "urgent", "asap", "right away") {
		extracted.Urgency = "urgent"
	}
}

func isGreeting(text string) bool {
	return greetingWords[strings.ToLower(strings.TrimSpace(strings.TrimRight(text, "!.")))]
}
