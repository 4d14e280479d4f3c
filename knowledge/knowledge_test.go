package knowledge

import (
	"reflect"
	"testing"

	"meetsync/models"
)

func TestLookupResolvesAndDeduplicates(t *testing.T) {
	b := Default()

	got := b.Lookup([]string{"john", "John Smith", "Zorblax", "sarah"})
	if len(got) != 2 {
		t.Fatalf("got %d attendees, want 2: %+v", len(got), got)
	}
	if got[0].Name != "John" || got[0].Email != "john.smith@example.com" {
		t.Fatalf("first attendee = %+v", got[0])
	}
	if got[1].Name != "Sarah" || got[1].BaseLocation != "New York" {
		t.Fatalf("second attendee = %+v", got[1])
	}
}

func TestLookupPrefixMatch(t *testing.T) {
	b := Default()

	got := b.Lookup([]string{"Pri"})
	if len(got) != 1 || got[0].Name != "Priya" {
		t.Fatalf("got %+v, want Priya", got)
	}
	if got := b.Lookup([]string{""}); len(got) != 0 {
		t.Fatalf("empty name matched %+v", got)
	}
}

func TestMatchNamesIn(t *testing.T) {
	b := Default()

	tests := []struct {
		text string
		want []string
	}{
		{"schedule a meeting with John and Sarah tomorrow", []string{"John", "Sarah"}},
		{"sarah, priya and alex please", []string{"Sarah", "Priya", "Alex"}},
		{"meet with Johnson about the launch", nil},
		{"no names here", nil},
	}
	for _, tt := range tests {
		got := b.MatchNamesIn(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MatchNamesIn(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAvailableRoomsFilterAndOrder(t *testing.T) {
	b := Default()

	rooms := b.AvailableRooms("New York", 2)
	if len(rooms) != 2 {
		t.Fatalf("got %d rooms, want 2: %+v", len(rooms), rooms)
	}
	if rooms[0].CabinID != "M2C2" || rooms[1].CabinID != "M2C3" {
		t.Fatalf("rooms = %+v, want smallest suitable first", rooms)
	}

	rooms = b.AvailableRooms("New York", 4)
	if len(rooms) != 1 || rooms[0].CabinID != "M1C5" {
		t.Fatalf("capacity filter failed: %+v", rooms)
	}

	if rooms := b.AvailableRooms("Denver", 1); rooms != nil {
		t.Fatalf("unknown location returned %+v", rooms)
	}
}

func TestFindRoomCaseInsensitive(t *testing.T) {
	b := Default()

	room, ok := b.FindRoom("c2c3")
	if !ok {
		t.Fatal("c2c3 not found")
	}
	if room.CabinID != "C2C3" || room.Location != "chicago" {
		t.Fatalf("room = %+v", room)
	}
	if _, ok := b.FindRoom("Z9Z9"); ok {
		t.Fatal("unknown cabin resolved")
	}
}

func TestUnavailableOnCountsOnlyOOOAndTravel(t *testing.T) {
	b := Default()
	attendees := b.Lookup([]string{"John", "Sarah", "Alex"})

	// 2025-08-13: John and Sarah have calendar conflicts, Alex is traveling.
	got := b.UnavailableOn(attendees, "2025-08-13")
	if len(got) != 1 {
		t.Fatalf("got %+v, want only Alex", got)
	}
	if got[0].Name != "Alex" || got[0].Reason != "traveling" {
		t.Fatalf("got %+v", got[0])
	}

	// 2025-08-20: John is out of office.
	got = b.UnavailableOn(attendees, "2025-08-20")
	if len(got) != 1 || got[0].Name != "John" || got[0].Reason != "out_of_office" {
		t.Fatalf("got %+v", got)
	}

	if got := b.UnavailableOn(attendees, "2025-08-14"); len(got) != 0 {
		t.Fatalf("clear day flagged %+v", got)
	}
}

func TestSnapshotsFillDefaultsForUnknownAttendees(t *testing.T) {
	b := Default()
	attendees := b.Lookup([]string{"John"})
	attendees = append(attendees, models.Attendee{Name: "Guest", Email: "guest@example.com"})

	snaps := b.Snapshots(attendees)
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if snaps["John"].Email != "john.smith@example.com" {
		t.Fatalf("John snapshot = %+v", snaps["John"])
	}
	guest := snaps["Guest"]
	if guest.Email != "guest@example.com" || guest.PreferredHours.Start != "08:00" {
		t.Fatalf("guest snapshot = %+v", guest)
	}
}
