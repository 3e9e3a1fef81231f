package trends

import (
	"sort"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
)

// TallyEntry is one row of the ranked mention tally.
type TallyEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TotalCount returns the number of stored mention events. Rows with
// unparsable timestamps still count here; only the time-series excludes them.
func TotalCount(events []domain.MentionEvent) int {
	return len(events)
}

// Tally counts mentions per entry, ranked descending. Entries with equal
// counts keep their first-appearance order in the event sequence.
func Tally(events []domain.MentionEvent) []TallyEntry {
	counts := make(map[string]int)
	var names []string
	for _, ev := range events {
		if _, ok := counts[ev.EntryName]; !ok {
			names = append(names, ev.EntryName)
		}
		counts[ev.EntryName]++
	}

	sort.SliceStable(names, func(i, j int) bool {
		return counts[names[i]] > counts[names[j]]
	})

	tally := make([]TallyEntry, len(names))
	for i, name := range names {
		tally[i] = TallyEntry{Name: name, Count: counts[name]}
	}
	return tally
}

// TimestampBounds returns the earliest and latest stored timestamps by text
// order, which is chronological for well-formed rows. Returns nil for an
// empty event slice.
func TimestampBounds(events []domain.MentionEvent) *domain.Bounds {
	if len(events) == 0 {
		return nil
	}
	bounds := &domain.Bounds{Earliest: events[0].Timestamp, Latest: events[0].Timestamp}
	for _, ev := range events[1:] {
		if ev.Timestamp < bounds.Earliest {
			bounds.Earliest = ev.Timestamp
		}
		if ev.Timestamp > bounds.Latest {
			bounds.Latest = ev.Timestamp
		}
	}
	return bounds
}
