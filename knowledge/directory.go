package knowledge

import (
	"strings"

	"meetsync/models"
)

// Lookup resolves human-readable names to attendee records in best-effort
// matching order. Unmatched names are omitted; matches are unique by email.
func (b *Base) Lookup(names []string) []models.Attendee {
	var out []models.Attendee
	seen := make(map[string]bool)
	for _, name := range names {
		u, ok := b.findUser(name)
		if !ok || seen[u.Email] {
			continue
		}
		seen[u.Email] = true
		out = append(out, models.Attendee{
			Name:         u.Name,
			Email:        u.Email,
			BaseLocation: u.BaseLocation,
			Timezone:     u.Timezone,
		})
	}
	return out
}

// MatchNamesIn scans free text for directory names and returns those that
// appear as whole words, in directory order. It backs the deterministic
// extraction path when the reasoning oracle is unavailable.
func (b *Base) MatchNamesIn(text string) []string {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		words[w] = true
	}

	var out []string
	for _, u := range b.users {
		first := strings.ToLower(strings.Fields(u.Name)[0])
		if words[first] {
			out = append(out, u.Name)
		}
	}
	return out
}

func (b *Base) findUser(name string) (UserAvailability, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return UserAvailability{}, false
	}
	// Exact name match first, then prefix match on first name.
	for _, u := range b.users {
		if strings.ToLower(u.Name) == needle {
			return u, true
		}
	}
	for _, u := range b.users {
		if strings.HasPrefix(strings.ToLower(u.Name), needle) {
			return u, true
		}
	}
	return UserAvailability{}, false
}
