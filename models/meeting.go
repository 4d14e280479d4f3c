package models

import "time"

// MeetingRecord is the finalized meeting as handed to the calendar
// collaborator and archived afterwards.
type MeetingRecord struct {
	SessionID       string    `bson:"sessionId" json:"sessionId"`
	UserID          string    `bson:"userId" json:"userId"`
	Title           string    `bson:"title" json:"title"`
	Date            string    `bson:"date" json:"date"`
	StartTime       string    `bson:"startTime" json:"startTime"`
	EndTime         string    `bson:"endTime" json:"endTime"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	AttendeeEmails  []string  `bson:"attendeeEmails" json:"attendeeEmails"`
	Location        string    `bson:"location" json:"location"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	EventID         string    `bson:"eventId,omitempty" json:"eventId,omitempty"`
	EventLink       string    `bson:"eventLink,omitempty" json:"eventLink,omitempty"`
	EmailsSent      bool      `bson:"emailsSent" json:"emailsSent"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// DispatchResult is the calendar collaborator's answer.
type DispatchResult struct {
	Status     string `json:"status"` // success|error
	EventID    string `json:"event_id,omitempty"`
	EventLink  string `json:"event_link,omitempty"`
	EmailsSent bool   `json:"emails_sent"`
	Error      string `json:"error,omitempty"`
}

// ReminderPayload is the asynq task body for a scheduled meeting reminder.
type ReminderPayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"`
}

// Session identifies one ongoing conversation at the transport boundary.
type Session struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}
