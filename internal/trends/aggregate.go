package trends

import (
	"math"
	"sort"
	"time"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
)

const (
	// DefaultCapK is the outlier ceiling multiplier: monthly counts above
	// mean + DefaultCapK*std are truncated to that ceiling. Historical chart
	// variants disagreed on the value (1 vs 4); 4 is the documented intent
	// and callers override it through Options, never by editing call sites.
	DefaultCapK = 4.0

	// DefaultSmoothWindow is the trailing moving-average window, in months,
	// used when a caller enables smoothing without choosing a width.
	DefaultSmoothWindow = 3

	// DefaultTopN bounds how many entries a series covers by default.
	DefaultTopN = 5
)

// Options parameterizes Aggregate. The zero value means: top DefaultTopN
// entries, DefaultCapK capping, no normalization, no smoothing.
type Options struct {
	TopN         int
	CapK         float64 // <= 0 selects DefaultCapK
	Normalize    bool    // monthly percentage share across selected entries
	SmoothWindow int     // <= 0 disables smoothing
}

// EntrySeries is one catalog entry's values over the shared month axis.
type EntrySeries struct {
	Name   string
	Values []float64
}

// Series is the aggregation result: a dense month axis and one value row per
// selected entry, all of equal length. Empty when no event carries a
// parsable timestamp.
type Series struct {
	Months  []time.Time
	Entries []EntrySeries
}

// Aggregate buckets events by calendar month and returns series for the
// top-N entries by raw mention count. Events with unparsable timestamps are
// excluded (they never abort the pass). The month axis spans the selected
// events' min..max month with explicit zero-fill. Transform order:
// normalization (from pre-cap raw counts), then per-entry outlier capping,
// then trailing-average smoothing.
func Aggregate(events []domain.MentionEvent, opts Options) Series {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	capK := opts.CapK
	if capK <= 0 {
		capK = DefaultCapK
	}

	type bucketed struct {
		month time.Time
		name  string
	}
	var retained []bucketed
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, ev := range events {
		ts, err := domain.ParseTimestamp(ev.Timestamp)
		if err != nil {
			continue
		}
		retained = append(retained, bucketed{month: monthOf(ts), name: ev.EntryName})
		if _, ok := firstSeen[ev.EntryName]; !ok {
			firstSeen[ev.EntryName] = len(firstSeen)
		}
		counts[ev.EntryName]++
	}
	if len(retained) == 0 {
		return Series{}
	}

	// Rank by raw count, ties kept in first-appearance order.
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return firstSeen[names[i]] < firstSeen[names[j]]
	})
	if len(names) > topN {
		names = names[:topN]
	}
	selected := make(map[string]int, len(names))
	for i, name := range names {
		selected[name] = i
	}

	// Dense month axis over the selected events only.
	var first, last time.Time
	for _, b := range retained {
		if _, ok := selected[b.name]; !ok {
			continue
		}
		if first.IsZero() || b.month.Before(first) {
			first = b.month
		}
		if last.IsZero() || b.month.After(last) {
			last = b.month
		}
	}
	var months []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	monthIndex := make(map[time.Time]int, len(months))
	for i, m := range months {
		monthIndex[m] = i
	}

	entries := make([]EntrySeries, len(names))
	for i, name := range names {
		entries[i] = EntrySeries{Name: name, Values: make([]float64, len(months))}
	}
	for _, b := range retained {
		if i, ok := selected[b.name]; ok {
			entries[i].Values[monthIndex[b.month]]++
		}
	}

	if opts.Normalize {
		normalize(entries, len(months))
	}
	for i := range entries {
		capOutliers(entries[i].Values, capK)
	}
	if opts.SmoothWindow > 0 {
		for i := range entries {
			entries[i].Values = smooth(entries[i].Values, opts.SmoothWindow)
		}
	}

	return Series{Months: months, Entries: entries}
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// normalize replaces each value with its percentage share of that month's
// total across all selected entries. Months with no mentions stay zero.
func normalize(entries []EntrySeries, numMonths int) {
	for m := 0; m < numMonths; m++ {
		var total float64
		for i := range entries {
			total += entries[i].Values[m]
		}
		if total == 0 {
			continue
		}
		for i := range entries {
			entries[i].Values[m] = entries[i].Values[m] / total * 100
		}
	}
}

// capOutliers truncates values above mean + k*std to that ceiling, using the
// population standard deviation of the entry's own series. A constant series
// (std == 0) is left untouched.
func capOutliers(values []float64, k float64) {
	if len(values) == 0 {
		return
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(values)))
	if std == 0 {
		return
	}

	ceiling := mean + k*std
	for i, v := range values {
		if v > ceiling {
			values[i] = ceiling
		}
	}
}

// smooth applies a trailing moving average. Each point averages at most
// window trailing values but at least one, so the first point equals itself.
func smooth(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for j := start; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(i-start+1)
	}
	return out
}
