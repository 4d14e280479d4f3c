package models

// Oracle status values for availability analysis.
const (
	StatusSuccess             = "success"
	StatusNoAvailability      = "no_availability"
	StatusAttendeeUnavailable = "attendee_unavailable"
	StatusNeedClarification   = "need_clarification"
	StatusInvalidPastDate     = "invalid_past_date"
)

// ExtractedRequest is the oracle's answer to the initial extraction prompt.
type ExtractedRequest struct {
	AttendeeNames    []string `json:"attendee_names"`
	RequestedDate    string   `json:"requested_date"`
	RequestedTime    string   `json:"requested_time"`
	DurationMinutes  int      `json:"duration_minutes"`
	Urgency          string   `json:"urgency"`
	FollowUpQuestion string   `json:"follow_up_question"`
}

// AvailabilityAnalysis is the oracle's structured answer when asked for
// candidate slots. The payload is untrusted: consumers must tolerate fenced
// or malformed output and fall back deterministically.
type AvailabilityAnalysis struct {
	Status               string                `json:"status"`
	ParsedRequest        *MeetingRequest       `json:"parsed_request,omitempty"`
	TargetDate           string                `json:"target_date,omitempty"`
	UnavailableAttendees []UnavailableAttendee `json:"unavailable_attendees,omitempty"`
	AvailableSlots       []TimeSlot            `json:"available_slots,omitempty"`
	ResponseMessage      string                `json:"response_message,omitempty"`
	FollowUpQuestion     string                `json:"follow_up_question,omitempty"`
	NextStep             string                `json:"next_step,omitempty"`
}

// Detail analysis actions.
const (
	ActionPartialDetails   = "partial_details"
	ActionCompleteDetails  = "complete_details"
	ActionDateCorrection   = "date_correction"
	ActionInvalidSelection = "invalid_selection"
	ActionConfirm          = "confirm"
	ActionCancel           = "cancel"
	ActionNeedMoreInfo     = "need_more_info"
)

// DetailAnalysis is the interpretation of one human reply inside the
// meeting-details loop, produced by the oracle or by the deterministic
// fallback parser. The aggregator merges it into state.
type DetailAnalysis struct {
	Action               string       `json:"action"`
	SelectedSlot         *TimeSlot    `json:"selected_slot,omitempty"`
	MeetingTitle         string       `json:"meeting_title,omitempty"`
	MeetingAgenda        string       `json:"meeting_agenda,omitempty"`
	MeetingFormat        string       `json:"meeting_format,omitempty"`
	SelectedRoom         *MeetingRoom `json:"selected_room,omitempty"`
	CorrectedDate        string       `json:"corrected_date,omitempty"`
	DurationMinutes      int          `json:"duration_minutes,omitempty"`
	Confidence           float64      `json:"confidence,omitempty"`
	MissingDetails       []string     `json:"missing_details,omitempty"`
	ResponseMessage      string       `json:"response_message,omitempty"`
	ReadyForConfirmation bool         `json:"ready_for_confirmation,omitempty"`
	NextStep             string       `json:"next_step,omitempty"`
}
