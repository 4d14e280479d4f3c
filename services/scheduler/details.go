package scheduler

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"meetsync/models"
	ai "meetsync/services/intelligence"
	"meetsync/utils"

	"go.uber.org/zap"
)

var (
	cabinRe    = regexp.MustCompile(`\b([A-Z]\d[A-Z]\d)\b`)
	topicRe    = regexp.MustCompile(`(?i)(?:topic|agenda)\s*[:\-]\s*(.+)`)
	durationRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:minutes|minute|mins|min)\b`)
	hourRe     = regexp.MustCompile(`(?i)\b(\d+)\s*(?:hours|hour|hrs|hr)\b`)
	clockRe    = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	dateRe     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	ordinalRe  = regexp.MustCompile(`(?i)\b(?:slot\s*)?(\d{1,2})(?:st|nd|rd|th)?\s*(?:slot|one|option)?\b`)
)

// stepMeetingDetails is the consolidated human-facing step. On fresh entry
// it asks for everything still unknown in a single prompt; on resume it
// interprets the reply, which may fill several fields at once, and either
// loops with a targeted follow-up, presents a confirmation summary, or
// advances to dispatch.
func (s *DefaultSchedulerService) stepMeetingDetails(ctx context.Context, st *models.ConversationState, input *string) (*models.InterruptRequest, error) {
	if input == nil {
		if st.DateInvalid {
			prompt := fmt.Sprintf(
				"The requested date %s has already passed. Which date should I check instead? You can say today, tomorrow, or a date like 2025-09-01.",
				st.TargetDate)
			st.AppendLog(models.SpeakerSystem, prompt)
			return s.newInterrupt(st, prompt, nil), nil
		}
		s.prepareRoomOptions(st)
		prompt := s.detailsIntro(st)
		st.AppendLog(models.SpeakerSystem, prompt)
		return s.newInterrupt(st, prompt, s.detailsContext(st)), nil
	}

	analysis := s.analyzeDetails(ctx, st, *input)
	return s.mergeDetails(st, analysis)
}

// analyzeDetails interprets one human reply, oracle first with the
// deterministic parser as fallback.
func (s *DefaultSchedulerService) analyzeDetails(ctx context.Context, st *models.ConversationState, reply string) models.DetailAnalysis {
	if s.Oracle != nil {
		out, err := s.Oracle.GenerateContent(ctx, buildDetailsPrompt(st, reply))
		if err == nil {
			var analysis models.DetailAnalysis
			if decodeErr := ai.DecodeJSON(out, &analysis); decodeErr == nil && analysis.Action != "" {
				return analysis
			}
		} else {
			utils.GetLogger().Warn("oracle detail analysis failed, using fallback",
				zap.String("sessionId", st.SessionID), zap.Error(err))
		}
	}
	return s.parseDetailsFallback(st, reply)
}

// mergeDetails folds one interpreted reply into state, preserving every
// previously-set field unless the reply explicitly replaces it.
func (s *DefaultSchedulerService) mergeDetails(st *models.ConversationState, a models.DetailAnalysis) (*models.InterruptRequest, error) {
	switch a.Action {
	case models.ActionDateCorrection:
		if a.CorrectedDate != "" {
			st.MeetingRequest.RequestedDate = a.CorrectedDate
			st.DateInvalid = false
			st.AvailableSlots = nil
			st.TargetDate = ""
			st.AppendLog(models.SpeakerSystem, fmt.Sprintf("Got it, checking %s instead.", a.CorrectedDate))
			st.CurrentStep = models.StepCheckAvailability
			return nil, nil
		}
	case models.ActionCancel:
		declined := false
		st.ConfirmationStatus = &declined
		st.AppendLog(models.SpeakerSystem, "Meeting cancelled.")
		st.CurrentStep = models.StepComplete
		return nil, nil
	case models.ActionInvalidSelection:
		msg := a.ResponseMessage
		if msg == "" {
			msg = fmt.Sprintf("I couldn't match that to the offered slots. Please pick one of:\n%s",
				formatSlotList(st.AvailableSlots))
		}
		st.AppendLog(models.SpeakerSystem, msg)
		return s.newInterrupt(st, msg, s.detailsContext(st)), nil
	}

	if intr := s.applyDetailFields(st, a); intr != nil {
		return intr, nil
	}

	if a.Action == models.ActionConfirm {
		if s.ready(st) {
			confirmed := true
			st.ConfirmationStatus = &confirmed
			st.AppendLog(models.SpeakerSystem, "Meeting confirmed! Sending invitations...")
			st.CurrentStep = models.StepSendInvites
			return nil, nil
		}
		// Confirmation before the record is complete falls through to the
		// targeted follow-up below.
	}

	if s.ready(st) {
		summary := s.confirmationSummary(st)
		st.AppendLog(models.SpeakerSystem, summary)
		return s.newInterrupt(st, summary, s.detailsContext(st)), nil
	}

	followUp := s.missingFollowUp(st)
	st.AppendLog(models.SpeakerSystem, followUp)
	return s.newInterrupt(st, followUp, s.detailsContext(st)), nil
}

// applyDetailFields applies field-level updates in priority order: agenda,
// room, format, slot, duration. A slot that does not match the offered list
// produces a re-prompt instead of an update.
func (s *DefaultSchedulerService) applyDetailFields(st *models.ConversationState, a models.DetailAnalysis) *models.InterruptRequest {
	if a.MeetingAgenda != "" {
		st.MeetingAgenda = a.MeetingAgenda
		if a.MeetingTitle != "" {
			st.MeetingTitle = a.MeetingTitle
		} else {
			st.MeetingTitle = deriveTitle(a.MeetingAgenda)
		}
		st.MeetingDescription = "Meeting scheduled via assistant. Agenda: " + a.MeetingAgenda
	} else if a.MeetingTitle != "" && st.MeetingTitle == "" {
		st.MeetingTitle = a.MeetingTitle
	}

	// A named room always implies in-person, even when the reply also says
	// something about format.
	if a.SelectedRoom != nil {
		st.MeetingRoom = a.SelectedRoom
		st.MeetingFormat = models.FormatInPerson
	} else if a.MeetingFormat != "" {
		st.MeetingFormat = a.MeetingFormat
		if st.MeetingFormat == models.FormatVirtual {
			st.MeetingRoom = nil
		} else if st.MeetingRoom == nil && s.sameLocation(st) && len(st.AvailableRooms) > 0 {
			st.MeetingRoom = &st.AvailableRooms[0]
		}
	}

	if a.SelectedSlot != nil {
		matched, ok := findOfferedSlot(st.AvailableSlots, *a.SelectedSlot)
		if !ok {
			msg := fmt.Sprintf("That time isn't among the offered slots. Please pick one of:\n%s",
				formatSlotList(st.AvailableSlots))
			st.AppendLog(models.SpeakerSystem, msg)
			return s.newInterrupt(st, msg, s.detailsContext(st))
		}
		st.SelectedSlot = &matched
	}

	if a.DurationMinutes > 0 {
		st.MeetingRequest.DurationMinutes = a.DurationMinutes
		if st.SelectedSlot != nil {
			st.SelectedSlot.DurationMinutes = a.DurationMinutes
			st.SelectedSlot.EndTime = addMinutes(st.SelectedSlot.StartTime, a.DurationMinutes)
		}
	}
	return nil
}

// ready reports whether every required field is set: a slot, a topic, and a
// format, plus a room when the meeting is in person.
func (s *DefaultSchedulerService) ready(st *models.ConversationState) bool {
	if st.SelectedSlot == nil {
		return false
	}
	if st.MeetingAgenda == "" && st.MeetingTitle == "" {
		return false
	}
	switch st.MeetingFormat {
	case models.FormatVirtual:
		return true
	case models.FormatInPerson:
		return st.MeetingRoom != nil
	default:
		return false
	}
}

// missingFollowUp names exactly the pieces still missing instead of
// restarting the whole questionnaire.
func (s *DefaultSchedulerService) missingFollowUp(st *models.ConversationState) string {
	var asks []string
	if st.SelectedSlot == nil {
		asks = append(asks, fmt.Sprintf("which time works for you:\n%s", formatSlotList(st.AvailableSlots)))
	}
	if st.MeetingAgenda == "" && st.MeetingTitle == "" {
		asks = append(asks, "what the meeting topic is")
	}
	switch st.MeetingFormat {
	case models.FormatInPerson:
		if st.MeetingRoom == nil {
			asks = append(asks, fmt.Sprintf("which cabin to book:\n%s", formatRoomList(st.AvailableRooms)))
		}
	case "":
		asks = append(asks, "whether you prefer a virtual or in-person meeting")
	}
	if len(asks) == 0 {
		return "What would you like to do next?"
	}
	if len(asks) == 1 {
		return "I still need to know " + asks[0] + "."
	}
	return "I still need a few things:\n- " + strings.Join(asks, "\n- ")
}

// detailsIntro is the first prompt of the consolidated details loop: slots,
// duration, location analysis with room options, and the topic ask, all in
// one message so a single reply can answer several of them.
func (s *DefaultSchedulerService) detailsIntro(st *models.ConversationState) string {
	var b strings.Builder

	if len(st.Attendees) > 0 {
		names := make([]string, len(st.Attendees))
		for i, a := range st.Attendees {
			names[i] = a.Name
		}
		fmt.Fprintf(&b, "Setting up a meeting with %s on %s.\n", joinNames(names), st.TargetDate)
	}
	b.WriteString("A few details to lock this in:\n")
	n := 1
	if len(st.AvailableSlots) > 0 {
		fmt.Fprintf(&b, "%d. Which time works for you?\n%s\n", n, formatSlotList(st.AvailableSlots))
		fmt.Fprintf(&b, "   You can say \"the second one\", \"the morning slot\", or a number.\n")
		n++
	}
	duration := st.MeetingRequest.DurationMinutes
	if duration <= 0 {
		duration = s.DefaultDuration
	}
	fmt.Fprintf(&b, "%d. I'll book %d minutes unless you want a different duration.\n", n, duration)
	n++

	fmt.Fprintf(&b, "%d. %s\n", n, s.locationAnalysis(st))
	n++

	fmt.Fprintf(&b, "%d. What's the meeting topic?", n)
	return b.String()
}

// locationAnalysis describes the format choice based on attendee base
// locations, listing bookable cabins.
func (s *DefaultSchedulerService) locationAnalysis(st *models.ConversationState) string {
	byLocation := attendeesByLocation(st.Attendees)

	if s.sameLocation(st) {
		var loc string
		for l := range byLocation {
			loc = l
		}
		msg := fmt.Sprintf("All attendees are in %s. Do you prefer a virtual or in-person meeting?", loc)
		if len(st.AvailableRooms) > 0 {
			msg += "\nIf in-person, here are available cabins:\n" + formatRoomList(st.AvailableRooms)
		}
		return msg
	}

	var parts []string
	for loc, names := range byLocation {
		parts = append(parts, fmt.Sprintf("%s (%s)", joinNames(names), loc))
	}
	msg := fmt.Sprintf("Since %s are from different locations, a virtual meeting is recommended.", strings.Join(parts, " and "))
	if len(st.AvailableRooms) > 0 {
		msg += "\nAlternatively, here are in-person options at each location:\n" + formatRoomList(st.AvailableRooms)
	}
	return msg
}

// prepareRoomOptions fills AvailableRooms from the catalog based on where
// the attendees sit. For a split group the options at every represented
// location are offered.
func (s *DefaultSchedulerService) prepareRoomOptions(st *models.ConversationState) {
	if len(st.AvailableRooms) > 0 || len(st.Attendees) == 0 {
		return
	}
	byLocation := attendeesByLocation(st.Attendees)
	if s.sameLocation(st) {
		for loc := range byLocation {
			st.AvailableRooms = s.Knowledge.AvailableRooms(loc, len(st.Attendees))
		}
		return
	}
	for loc, names := range byLocation {
		st.AvailableRooms = append(st.AvailableRooms, s.Knowledge.AvailableRooms(loc, len(names))...)
	}
}

func (s *DefaultSchedulerService) sameLocation(st *models.ConversationState) bool {
	byLocation := attendeesByLocation(st.Attendees)
	if len(byLocation) != 1 {
		return false
	}
	_, unknown := byLocation[""]
	return !unknown
}

func attendeesByLocation(attendees []models.Attendee) map[string][]string {
	byLocation := make(map[string][]string)
	for _, a := range attendees {
		byLocation[a.BaseLocation] = append(byLocation[a.BaseLocation], a.Name)
	}
	return byLocation
}

// confirmationSummary presents the complete record for explicit sign-off.
func (s *DefaultSchedulerService) confirmationSummary(st *models.ConversationState) string {
	names := make([]string, len(st.Attendees))
	for i, a := range st.Attendees {
		names[i] = a.Name
	}
	location := "Virtual"
	if st.MeetingFormat == models.FormatInPerson && st.MeetingRoom != nil {
		location = fmt.Sprintf("Cabin %s at %s", st.MeetingRoom.CabinID, st.MeetingRoom.Location)
	}
	title := st.MeetingTitle
	if title == "" {
		title = "Meeting"
	}
	return fmt.Sprintf(`Please review and confirm this meeting:
- Title: %s
- Date: %s
- Time: %s - %s
- Attendees: %s
- Location: %s
- Agenda: %s

Type 'confirm' to proceed or 'cancel' to abort.`,
		title, st.SelectedSlot.Date, st.SelectedSlot.StartTime, st.SelectedSlot.EndTime,
		joinNames(names), location, st.MeetingAgenda)
}

func (s *DefaultSchedulerService) detailsContext(st *models.ConversationState) map[string]interface{} {
	return map[string]interface{}{
		"available_slots": st.AvailableSlots,
		"available_rooms": st.AvailableRooms,
		"selected_slot":   st.SelectedSlot,
	}
}

// parseDetailsFallback is the deterministic interpretation of a reply, used
// whenever the oracle is unavailable or unusable. It recognizes the same
// signals the oracle is asked for: cancellation, confirmation, a corrected
// date, cabin ids, format keywords, slot selection, duration, and topic.
func (s *DefaultSchedulerService) parseDetailsFallback(st *models.ConversationState, reply string) models.DetailAnalysis {
	var a models.DetailAnalysis
	lower := strings.ToLower(strings.TrimSpace(reply))

	if containsAny(lower, "cancel", "abort", "never mind", "nevermind") {
		a.Action = models.ActionCancel
		return a
	}

	if st.DateInvalid {
		if corrected, ok := extractDate(lower); ok {
			a.Action = models.ActionDateCorrection
			a.CorrectedDate = corrected
			return a
		}
	}

	// selectionText is the reply with already-consumed phrases removed so
	// their digits cannot be mistaken for a slot ordinal.
	selectionText := lower

	if m := topicRe.FindStringSubmatch(reply); m != nil {
		a.MeetingAgenda = strings.TrimSpace(m[1])
		selectionText = topicRe.ReplaceAllString(selectionText, "")
	}

	if m := cabinRe.FindStringSubmatch(strings.ToUpper(reply)); m != nil {
		if room, ok := findRoom(st.AvailableRooms, m[1]); ok {
			a.SelectedRoom = &room
			a.MeetingFormat = models.FormatInPerson
		} else if room, ok := s.Knowledge.FindRoom(m[1]); ok {
			a.SelectedRoom = &room
			a.MeetingFormat = models.FormatInPerson
		} else {
			a.Action = models.ActionInvalidSelection
			a.ResponseMessage = "I couldn't find that cabin. Please choose from the available options:\n" + formatRoomList(st.AvailableRooms)
			return a
		}
	} else if containsAny(lower, "virtual", "online", "video") {
		a.MeetingFormat = models.FormatVirtual
	} else if containsAny(lower, "in-person", "in person", "office", "cabin") {
		a.MeetingFormat = models.FormatInPerson
	}

	if m := durationRe.FindStringSubmatch(lower); m != nil {
		if mins, err := strconv.Atoi(m[1]); err == nil && mins > 0 {
			a.DurationMinutes = mins
		}
		selectionText = durationRe.ReplaceAllString(selectionText, "")
	} else if m := hourRe.FindStringSubmatch(lower); m != nil {
		if hours, err := strconv.Atoi(m[1]); err == nil && hours > 0 {
			a.DurationMinutes = hours * 60
		}
		selectionText = hourRe.ReplaceAllString(selectionText, "")
	}
	selectionText = dateRe.ReplaceAllString(selectionText, "")

	if st.SelectedSlot == nil && len(st.AvailableSlots) > 0 {
		slot, outcome := resolveSlotSelection(st.AvailableSlots, selectionText)
		switch outcome {
		case slotMatched:
			a.SelectedSlot = slot
		case slotOutOfRange:
			a.Action = models.ActionInvalidSelection
			return a
		}
	}

	if containsAny(lower, "confirm") || lower == "yes" || lower == "y" || lower == "ok" || lower == "okay" || lower == "go ahead" {
		a.Action = models.ActionConfirm
		return a
	}

	// A reply with no other signal after a slot was already chosen is the
	// agenda the intro asked for.
	if a.MeetingAgenda == "" && a.SelectedSlot == nil && a.SelectedRoom == nil &&
		a.MeetingFormat == "" && a.DurationMinutes == 0 &&
		st.SelectedSlot != nil && st.MeetingAgenda == "" && lower != "" {
		a.MeetingAgenda = strings.TrimSpace(reply)
	}

	if a.MeetingAgenda != "" || a.SelectedSlot != nil || a.SelectedRoom != nil ||
		a.MeetingFormat != "" || a.DurationMinutes > 0 {
		a.Action = models.ActionPartialDetails
	} else {
		a.Action = models.ActionNeedMoreInfo
	}
	return a
}

type slotOutcome int

const (
	slotNoSelection slotOutcome = iota
	slotMatched
	slotOutOfRange
)

// resolveSlotSelection matches a reply against the offered slots by ordinal,
// description, or literal time. An ordinal outside the offered range is an
// invalid selection, not a crash.
func resolveSlotSelection(slots []models.TimeSlot, lower string) (*models.TimeSlot, slotOutcome) {
	ordinalWords := map[string]int{
		"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	}
	for word, idx := range ordinalWords {
		if strings.Contains(lower, word) {
			return slotByIndex(slots, idx)
		}
	}

	if strings.Contains(lower, "morning") {
		for i := range slots {
			if slots[i].StartTime < "12:00" {
				return &slots[i], slotMatched
			}
		}
		return nil, slotOutOfRange
	}
	if strings.Contains(lower, "afternoon") {
		for i := range slots {
			if slots[i].StartTime >= "12:00" {
				return &slots[i], slotMatched
			}
		}
		return nil, slotOutOfRange
	}

	for _, m := range clockRe.FindAllStringSubmatch(lower, -1) {
		// A bare digit is an ordinal, not a time. Only a minute part or an
		// am/pm marker makes it a clock reading.
		if m[2] == "" && m[3] == "" {
			continue
		}
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		meridiem := m[3]
		candidates := []int{hour}
		if meridiem == "pm" && hour < 12 {
			candidates = []int{hour + 12}
		} else if meridiem == "" && hour < 12 {
			candidates = append(candidates, hour+12)
		}
		for _, h := range candidates {
			start := fmt.Sprintf("%02d:%02d", h, minute)
			for i := range slots {
				if slots[i].StartTime == start {
					return &slots[i], slotMatched
				}
			}
		}
	}

	if m := ordinalRe.FindStringSubmatch(lower); m != nil {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			return slotByIndex(slots, idx)
		}
	}
	return nil, slotNoSelection
}

func slotByIndex(slots []models.TimeSlot, idx int) (*models.TimeSlot, slotOutcome) {
	if idx < 1 || idx > len(slots) {
		return nil, slotOutOfRange
	}
	return &slots[idx-1], slotMatched
}

// findOfferedSlot matches a candidate against the offered list by date and
// start time, returning the offered value so end time and duration stay
// consistent with what was shown.
func findOfferedSlot(offered []models.TimeSlot, candidate models.TimeSlot) (models.TimeSlot, bool) {
	for _, slot := range offered {
		if slot.StartTime == candidate.StartTime && (candidate.Date == "" || slot.Date == candidate.Date) {
			return slot, true
		}
	}
	return models.TimeSlot{}, false
}

func findRoom(rooms []models.MeetingRoom, cabinID string) (models.MeetingRoom, bool) {
	for _, room := range rooms {
		if room.CabinID == cabinID {
			return room, true
		}
	}
	return models.MeetingRoom{}, false
}

func formatRoomList(rooms []models.MeetingRoom) string {
	var b strings.Builder
	for _, room := range rooms {
		fmt.Fprintf(&b, "- floor %s Cabin %s (%d-person capacity) at %s\n", room.Floor, room.CabinID, room.Capacity, room.Location)
	}
	return strings.TrimRight(b.String(), "\n")
}

// extractDate pulls a corrected date out of a reply: relative terms pass
// through for the resolver, absolute dates must be YYYY-MM-DD.
func extractDate(lower string) (string, bool) {
	if strings.Contains(lower, "tomorrow") {
		return "tomorrow", true
	}
	if strings.Contains(lower, "today") {
		return "today", true
	}
	if m := dateRe.FindStringSubmatch(lower); m != nil {
		return m[1], true
	}
	return "", false
}

// deriveTitle builds a short title from the first words of the agenda.
func deriveTitle(agenda string) string {
	words := strings.Fields(agenda)
	n := len(words)
	if n > 4 {
		words = words[:4]
	}
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	title := strings.Join(words, " ")
	if n > 4 {
		title += "..."
	}
	return title
}

func addMinutes(clock string, minutes int) string {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(clockLayout)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
