package scheduler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"meetsync/knowledge"
	"meetsync/models"
)

// buildExtractionPrompt asks the oracle to pull structured meeting details
// out of the raw request text.
func buildExtractionPrompt(raw string, now time.Time) string {
	return fmt.Sprintf(`Extract meeting details from this request: %q

Today's date is %s and current time is %s.

Return as JSON:
{
    "attendee_names": ["name1", "name2"],
    "requested_date": "YYYY-MM-DD or relative date",
    "requested_time": "HH:MM",
    "duration_minutes": 30,
    "urgency": "urgent|normal",
    "follow_up_question": "question if the request is ambiguous, empty otherwise"
}

If any field is not mentioned, use null. Respond with JSON only.`,
		raw, now.Format("2006-01-02"), now.Format("15:04"))
}

// buildAvailabilityPrompt asks the oracle to analyze attendee availability
// and propose candidate slots on the target date.
func (s *DefaultSchedulerService) buildAvailabilityPrompt(st *models.ConversationState, snapshots map[string]knowledge.UserAvailability, now time.Time) string {
	request, _ := json.Marshal(st.MeetingRequest)
	attendees, _ := json.Marshal(st.Attendees)
	availability, _ := json.Marshal(snapshots)

	return fmt.Sprintf(`You are an intelligent meeting scheduler. Analyze the meeting request and attendee availability to find optimal meeting times.

CONTEXT:
- Current date and time: %s
- Business hours: %02d:00 - %02d:00 (Monday-Friday)
- Default meeting duration: %d minutes if not specified
- Time slots are in 30-minute increments

INPUT:
Meeting Request: %s
Attendees: %s
Availability Data: %s

TASK:
1. Resolve the requested date to a concrete YYYY-MM-DD target date.
2. Mark attendees who are out of office or traveling on the target date as unavailable. An ordinary calendar conflict never makes an attendee unavailable.
3. Find available 30-minute slots within business hours, routing around calendar conflicts.
4. Consolidate consecutive slots and rank by preference.

RESPOND ONLY WITH VALID JSON in this exact format:
{
"status": "success|no_availability|attendee_unavailable|need_clarification|invalid_past_date",
"parsed_request": {
    "title": "extracted meeting title or purpose",
    "requestedDate": "YYYY-MM-DD",
    "requestedTime": "HH:MM",
    "durationMinutes": 30,
    "priority": "high|medium|low"
},
"target_date": "YYYY-MM-DD",
"unavailable_attendees": [
    {"name": "attendee name", "reason": "out_of_office|traveling", "details": "specific conflict description"}
],
"available_slots": [
    {"date": "YYYY-MM-DD", "start_time": "HH:MM", "end_time": "HH:MM", "duration_minutes": 30}
],
"response_message": "Natural language response with specific times and dates",
"follow_up_question": "Question if more info is needed, empty otherwise",
"next_step": "select_time|reschedule|gather_more_info"
}

RULES:
- Skip past times when the target date is today
- If attendees are unavailable, suggest the next available date instead
- Present max 3 best available slots
- If the requested date is strictly before today, set status to invalid_past_date and return no slots
- Be conversational and helpful in response_message`,
		now.Format("2006-01-02 15:04:05"),
		s.BusinessStart, s.BusinessEnd, s.DefaultDuration,
		request, attendees, availability)
}

// buildDetailsPrompt asks the oracle to interpret one human reply inside
// the meeting-details loop against everything already known.
func buildDetailsPrompt(st *models.ConversationState, reply string) string {
	var slots strings.Builder
	for i, slot := range st.AvailableSlots {
		fmt.Fprintf(&slots, "%d. %s from %s to %s\n", i+1, slot.Date, slot.StartTime, slot.EndTime)
	}
	var rooms strings.Builder
	for _, room := range st.AvailableRooms {
		fmt.Fprintf(&rooms, "- Cabin %s (floor %s, %d-person capacity) at %s\n", room.CabinID, room.Floor, room.Capacity, room.Location)
	}
	known, _ := json.Marshal(map[string]interface{}{
		"selected_slot":  st.SelectedSlot,
		"meeting_title":  st.MeetingTitle,
		"meeting_agenda": st.MeetingAgenda,
		"meeting_format": st.MeetingFormat,
		"meeting_room":   st.MeetingRoom,
		"date_invalid":   st.DateInvalid,
	})

	return fmt.Sprintf(`You are gathering the remaining details for a meeting being scheduled.

Offered time slots:
%s
Available rooms:
%s
Details gathered so far: %s

The user replied: %q

Interpret the reply. One reply may fill several fields at once. Respond ONLY with JSON:
{
"action": "partial_details|complete_details|date_correction|invalid_selection|confirm|cancel|need_more_info",
"selected_slot": {"date": "YYYY-MM-DD", "start_time": "HH:MM", "end_time": "HH:MM", "duration_minutes": 30},
"meeting_title": "short title derived from the agenda",
"meeting_agenda": "agenda text if supplied",
"meeting_format": "virtual|in-person",
"selected_room": {"location": "", "floor": "", "cabin_id": "", "capacity": 0},
"corrected_date": "YYYY-MM-DD if the user supplied a new date after an invalid one",
"duration_minutes": 0,
"confidence": 0.0,
"missing_details": ["slot", "agenda", "format", "room"],
"response_message": "short conversational reply",
"ready_for_confirmation": false,
"next_step": ""
}

RULES:
- Omit fields the reply does not mention; never invent values.
- A room or cabin id in the reply implies an in-person format.
- Slot selection may be by number ("2"), ordinal ("the second one"), description ("morning"), or literal time; resolve it against the offered slots above.
- A selection that does not match any offered slot is invalid_selection.
- "confirm" means the user accepts the summarized meeting; "cancel" aborts it.`,
		slots.String(), rooms.String(), known, reply)
}

// formatSlotList renders offered slots as a numbered list for prompts shown
// to the human.
func formatSlotList(slots []models.TimeSlot) string {
	var b strings.Builder
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. %s from %s to %s\n", i+1, slot.Date, slot.StartTime, slot.EndTime)
	}
	return strings.TrimRight(b.String(), "\n")
}

// joinNames renders attendee names as natural language: "A", "A and B",
// "A, B, and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
