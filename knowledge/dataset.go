package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
)

// CalendarEvent is one booked entry on an attendee's calendar.
type CalendarEvent struct {
	Slot    string `json:"slot"` // "HH:MM-HH:MM"
	Title   string `json:"title"`
	EventID string `json:"event_id"`
}

// PreferredHours bounds an attendee's working day.
type PreferredHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UserAvailability is one attendee's directory record plus availability
// snapshot. OOO and travel dates make the attendee unavailable; calendar
// events are ordinary conflicts that scheduling routes around.
type UserAvailability struct {
	Name           string                     `json:"name"`
	Email          string                     `json:"email"`
	BaseLocation   string                     `json:"base_location"`
	Timezone       string                     `json:"timezone"`
	OOODates       []string                   `json:"ooo_dates"`
	TravelDates    []string                   `json:"travel_dates"`
	CalendarEvents map[string][]CalendarEvent `json:"calendar_events"`
	PreferredHours PreferredHours             `json:"preferred_hours"`
}

// Cabin is a bookable room on one floor.
type Cabin struct {
	CabinID  string `json:"cabin_id"`
	Capacity int    `json:"capacity"`
}

// Dataset is the on-disk shape of the reference data.
type Dataset struct {
	Users     []UserAvailability `json:"users"`
	Locations map[string]struct {
		Floors map[string]struct {
			Cabins []Cabin `json:"cabins"`
		} `json:"floors"`
	} `json:"locations"`
}

// Base bundles the directory, availability snapshots and the room catalog.
// It is immutable after construction and safe for concurrent reads.
type Base struct {
	users []UserAvailability
	rooms map[string][]roomEntry
}

type roomEntry struct {
	floor    string
	cabinID  string
	capacity int
}

// Load reads a dataset file. A missing or unreadable file is an error; use
// Default() for a redis-less/dataset-less dev setup.
func Load(path string) (*Base, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("knowledge: parse dataset: %w", err)
	}
	return New(ds), nil
}

// New builds a Base from an in-memory dataset.
func New(ds Dataset) *Base {
	b := &Base{rooms: make(map[string][]roomEntry)}
	b.users = append(b.users, ds.Users...)
	for loc, data := range ds.Locations {
		for floor, fd := range data.Floors {
			for _, c := range fd.Cabins {
				b.rooms[normalizeLocation(loc)] = append(b.rooms[normalizeLocation(loc)], roomEntry{
					floor:    floor,
					cabinID:  c.CabinID,
					capacity: c.Capacity,
				})
			}
		}
	}
	return b
}

// Default returns the built-in reference dataset used when no dataset file
// is configured.
func Default() *Base {
	ds := Dataset{
		Users: []UserAvailability{
			{
				Name: "John", Email: "john.smith@example.com",
				BaseLocation: "New York", Timezone: "ET",
				OOODates:    []string{"2025-08-20"},
				TravelDates: []string{"2025-08-21"},
				CalendarEvents: map[string][]CalendarEvent{
					"2025-08-13": {{Slot: "10:00-10:30", Title: "1:1 sync", EventID: "evt-1001"}},
				},
				PreferredHours: PreferredHours{Start: "08:00", End: "17:00"},
			},
			{
				Name: "Sarah", Email: "sarah.lee@example.com",
				BaseLocation: "New York", Timezone: "ET",
				CalendarEvents: map[string][]CalendarEvent{
					"2025-08-13": {{Slot: "14:00-15:00", Title: "Design review", EventID: "evt-1002"}},
				},
				PreferredHours: PreferredHours{Start: "08:00", End: "17:00"},
			},
			{
				Name: "Priya", Email: "priya.nair@example.com",
				BaseLocation: "Chicago", Timezone: "CT",
				OOODates:       []string{"2025-08-15"},
				PreferredHours: PreferredHours{Start: "08:00", End: "17:00"},
			},
			{
				Name: "Alex", Email: "alex.chen@example.com",
				BaseLocation: "San Francisco", Timezone: "PT",
				TravelDates:    []string{"2025-08-13"},
				PreferredHours: PreferredHours{Start: "08:00", End: "17:00"},
			},
		},
	}
	b := New(ds)
	b.rooms = map[string][]roomEntry{
		"new york": {
			{floor: "1", cabinID: "M1C5", capacity: 5},
			{floor: "2", cabinID: "M2C3", capacity: 3},
			{floor: "2", cabinID: "M2C2", capacity: 2},
		},
		"chicago": {
			{floor: "1", cabinID: "C1C5", capacity: 5},
			{floor: "2", cabinID: "C2C3", capacity: 3},
			{floor: "2", cabinID: "C2C2", capacity: 2},
		},
		"san francisco": {
			{floor: "1", cabinID: "S1C5", capacity: 5},
			{floor: "2", cabinID: "S2C3", capacity: 3},
			{floor: "2", cabinID: "S2C2", capacity: 2},
		},
	}
	return b
}
