package knowledge

import (
	"fmt"

	"meetsync/models"
)

// UnavailableOn reports the attendees who cannot meet on the given date.
// Only out-of-office and travel entries count; an ordinary calendar conflict
// does not make an attendee unavailable.
func (b *Base) UnavailableOn(attendees []models.Attendee, date string) []models.UnavailableAttendee {
	var out []models.UnavailableAttendee
	for _, att := range attendees {
		u, ok := b.findUser(att.Name)
		if !ok {
			continue
		}
		if containsDate(u.OOODates, date) {
			out = append(out, models.UnavailableAttendee{
				Name:    u.Name,
				Reason:  models.ReasonOutOfOffice,
				Details: fmt.Sprintf("%s is out of office on %s", u.Name, date),
			})
			continue
		}
		if containsDate(u.TravelDates, date) {
			out = append(out, models.UnavailableAttendee{
				Name:    u.Name,
				Reason:  models.ReasonTraveling,
				Details: fmt.Sprintf("%s is traveling on %s", u.Name, date),
			})
		}
	}
	return out
}

// Snapshots collects availability records for the given attendees, filling a
// default record for anyone missing from the dataset. The result feeds the
// reasoning oracle's context.
func (b *Base) Snapshots(attendees []models.Attendee) map[string]UserAvailability {
	out := make(map[string]UserAvailability, len(attendees))
	for _, att := range attendees {
		if u, ok := b.findUser(att.Name); ok {
			out[att.Name] = u
			continue
		}
		out[att.Name] = UserAvailability{
			Name:           att.Name,
			Email:          att.Email,
			CalendarEvents: map[string][]CalendarEvent{},
			PreferredHours: PreferredHours{Start: "08:00", End: "17:00"},
		}
	}
	return out
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
