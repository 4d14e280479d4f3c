package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"meetsync/models"
)

// Package-level HTTP client for calendar service calls.
var calendarHTTPClient = &http.Client{Timeout: 10 * time.Second}

// CalendarClient talks to the external calendar-booking microservice.
type CalendarClient struct {
	URL string
}

func NewCalendarClient(url string) *CalendarClient {
	return &CalendarClient{URL: url}
}

type calendarEventRequest struct {
	Title           string   `json:"title"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	DurationMinutes int      `json:"duration_minutes"`
	AttendeeEmails  []string `json:"attendee_emails"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
}

// CreateEvent books the event and asks the collaborator to email invitees.
func (c *CalendarClient) CreateEvent(ctx context.Context, rec *models.MeetingRecord) (*models.DispatchResult, error) {
	payload, err := json.Marshal(calendarEventRequest{
		Title:           rec.Title,
		Date:            rec.Date,
		Time:            rec.StartTime,
		DurationMinutes: rec.DurationMinutes,
		AttendeeEmails:  rec.AttendeeEmails,
		Location:        rec.Location,
		Description:     rec.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal calendar event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("build calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := calendarHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call calendar service: %w", err)
	}
	defer resp.Body.Close()

	var result models.DispatchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode calendar response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && result.Status == "" {
		return nil, fmt.Errorf("calendar service returned status %d", resp.StatusCode)
	}
	return &result, nil
}
