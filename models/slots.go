package models

// TimeSlot represents a candidate meeting window. All times are expressed in
// the session's fixed timezone. Two slots are equal iff all four fields match.
type TimeSlot struct {
	Date            string `json:"date"`       // YYYY-MM-DD
	StartTime       string `json:"start_time"` // HH:MM
	EndTime         string `json:"end_time"`   // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
}

// Attendee is a resolved directory record. Attendees are unique by email
// within a conversation.
type Attendee struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	BaseLocation string `json:"baseLocation,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
}

// MeetingRoom is immutable reference data from the room catalog.
type MeetingRoom struct {
	Location string `json:"location"`
	Floor    string `json:"floor"`
	CabinID  string `json:"cabin_id"`
	Capacity int    `json:"capacity"`
}
