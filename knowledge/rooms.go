package knowledge

import (
	"sort"
	"strings"

	"meetsync/models"
)

// maxRoomOptions caps how many rooms a lookup returns.
const maxRoomOptions = 2

// AvailableRooms returns rooms at a location that hold at least minCapacity
// people, smallest suitable room first, truncated to maxRoomOptions.
func (b *Base) AvailableRooms(location string, minCapacity int) []models.MeetingRoom {
	entries, ok := b.rooms[normalizeLocation(location)]
	if !ok {
		return nil
	}

	var rooms []models.MeetingRoom
	for _, e := range entries {
		if e.capacity >= minCapacity {
			rooms = append(rooms, models.MeetingRoom{
				Location: location,
				Floor:    e.floor,
				CabinID:  e.cabinID,
				Capacity: e.capacity,
			})
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Capacity < rooms[j].Capacity })
	if len(rooms) > maxRoomOptions {
		rooms = rooms[:maxRoomOptions]
	}
	return rooms
}

// FindRoom resolves a cabin id to its catalog entry, searching all locations.
func (b *Base) FindRoom(cabinID string) (models.MeetingRoom, bool) {
	needle := strings.ToUpper(strings.TrimSpace(cabinID))
	for loc, entries := range b.rooms {
		for _, e := range entries {
			if e.cabinID == needle {
				return models.MeetingRoom{
					Location: loc,
					Floor:    e.floor,
					CabinID:  e.cabinID,
					Capacity: e.capacity,
				}, true
			}
		}
	}
	return models.MeetingRoom{}, false
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
