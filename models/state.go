package models

import "time"

// Step identifies the workflow's position. Routing falls back to
// StepParseRequest for anything outside the declared set.
type Step string

const (
	StepParseRequest        Step = "parse_request"
	StepCheckAvailability   Step = "check_availability"
	StepHumanMeetingDetails Step = "human_meeting_details"
	StepSendInvites         Step = "send_invites"
	StepComplete            Step = "complete"
)

// Meeting format values.
const (
	FormatVirtual  = "virtual"
	FormatInPerson = "in-person"
)

// Unavailability reasons. Ordinary calendar conflicts are never recorded
// here; they produce alternative slots instead.
const (
	ReasonOutOfOffice = "out_of_office"
	ReasonTraveling   = "traveling"
)

// Speaker values for conversation log entries.
const (
	SpeakerUser   = "user"
	SpeakerSystem = "system"
)

// MeetingRequest carries the raw request text plus whatever has been
// extracted from it so far. Fields stay empty until filled.
type MeetingRequest struct {
	RawRequest      string `json:"rawRequest"`
	Title           string `json:"title,omitempty"`
	RequestedDate   string `json:"requestedDate,omitempty"`
	RequestedTime   string `json:"requestedTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Priority        string `json:"priority,omitempty"`
}

// UnavailableAttendee records someone who cannot attend on the target date.
type UnavailableAttendee struct {
	Name    string `json:"name"`
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

// Message is one entry in the append-only conversation log.
type Message struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// HandledResume remembers the last resume the engine processed so a retried
// resume with the same interrupt id and reply returns the cached outcome
// instead of mutating state again.
type HandledResume struct {
	InterruptID string      `json:"interruptId"`
	Reply       string      `json:"reply"`
	Result      *TurnResult `json:"result,omitempty"`
}

// ConversationState is the workflow's mutable record, one per session. It is
// owned exclusively by step handlers during a turn and persisted by the
// checkpoint store between turns.
type ConversationState struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`

	CurrentStep Step `json:"currentStep"`

	MeetingRequest MeetingRequest `json:"meetingRequest"`
	Attendees      []Attendee     `json:"attendees,omitempty"`

	AvailableSlots       []TimeSlot            `json:"availableSlots,omitempty"`
	UnavailableAttendees []UnavailableAttendee `json:"unavailableAttendees,omitempty"`
	TargetDate           string                `json:"targetDate,omitempty"`

	// DateInvalid is set when the requested date lies in the past; slot
	// computation stays short-circuited until a corrected date arrives.
	DateInvalid bool `json:"dateInvalid,omitempty"`

	SelectedSlot       *TimeSlot     `json:"selectedSlot,omitempty"`
	MeetingTitle       string        `json:"meetingTitle,omitempty"`
	MeetingAgenda      string        `json:"meetingAgenda,omitempty"`
	MeetingDescription string        `json:"meetingDescription,omitempty"`
	MeetingFormat      string        `json:"meetingFormat,omitempty"`
	MeetingRoom        *MeetingRoom  `json:"meetingRoom,omitempty"`
	AvailableRooms     []MeetingRoom `json:"availableRooms,omitempty"`

	ConversationLog    []Message `json:"conversationLog,omitempty"`
	ConfirmationStatus *bool     `json:"confirmationStatus,omitempty"`

	PendingInterrupt *InterruptRequest `json:"pendingInterrupt,omitempty"`
	LastHandled      *HandledResume    `json:"lastHandled,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppendLog appends one entry to the conversation log. The log is read-only
// except for appends and is never pruned during a session.
func (s *ConversationState) AppendLog(speaker, text string) {
	s.ConversationLog = append(s.ConversationLog, Message{
		Speaker: speaker,
		Text:    text,
		At:      time.Now(),
	})
}

// Terminal reports whether the session has reached its end state.
func (s *ConversationState) Terminal() bool {
	return s.CurrentStep == StepComplete
}
