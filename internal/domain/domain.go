package domain

import (
	"context"
	"time"
)

// --- Model types ---

// SourceType identifies the kind of feed item a mention was found in.
type SourceType string

const (
	SourceSubmission SourceType = "submission"
	SourceComment    SourceType = "comment"
)

// MentionEvent is one recorded occurrence of a catalog name in one feed item.
// ID is assigned by the store in insertion order. Timestamp is kept in its
// stored text form (TimestampLayout, UTC): rows with unparsable timestamps
// stay in the store and still count toward tallies, so parsing is deferred to
// consumers that need time semantics.
type MentionEvent struct {
	ID        int64      `db:"id"`
	Timestamp string     `db:"ts"`
	Type      SourceType `db:"type"`
	SourceID  string     `db:"source_id"`
	URL       string     `db:"url"`
	EntryName string     `db:"entry_name"`
}

// FeedItem is one submission or comment delivered by a feed source.
// CreatedAt is the platform-provided timestamp, already formatted in
// TimestampLayout (UTC) and used verbatim for recorded events.
type FeedItem struct {
	SourceID  string
	Text      string
	URL       string
	CreatedAt string
}

// DedupMode selects which duplicate-removal pass (if any) a pipeline runs
// after recording. Soft removal is a superset of exact removal.
type DedupMode string

const (
	DedupNone  DedupMode = "none"
	DedupExact DedupMode = "exact" // identical (timestamp, source_id, entry_name)
	DedupSoft  DedupMode = "soft"  // identical (source_id, entry_name), timestamp ignored
)

// Valid reports whether m is one of the supported dedup modes.
func (m DedupMode) Valid() bool {
	switch m {
	case DedupNone, DedupExact, DedupSoft:
		return true
	}
	return false
}

// DedupResult reports the outcome of a dedup pass. A second identical pass
// removes zero rows.
type DedupResult struct {
	Removed   int64
	Remaining int64
}

// Bounds holds the earliest and latest stored timestamps, in their text form.
type Bounds struct {
	Earliest string
	Latest   string
}

// --- Interfaces ---

// CatalogRepository supplies the ordered list of known names. The loader does
// not validate emptiness or uniqueness; the matcher tolerates duplicates.
// Failure to reach the backing store wraps ErrCatalogUnavailable.
type CatalogRepository interface {
	ListNames(ctx context.Context) ([]string, error)
	Seed(ctx context.Context, names []string) (int, error)
}

// MentionRepository abstracts mention event persistence. Record appends and
// never rejects duplicate content; duplicate removal is an explicit pass.
// All returns events in insertion order. Bounds returns nil when the store is
// empty. Storage failures wrap ErrStorage.
type MentionRepository interface {
	Record(ctx context.Context, event MentionEvent) error
	DedupExact(ctx context.Context) (DedupResult, error)
	DedupSoft(ctx context.Context) (DedupResult, error)
	All(ctx context.Context) ([]MentionEvent, error)
	Bounds(ctx context.Context) (*Bounds, error)
	ClampFutureTimestamps(ctx context.Context, now time.Time) (int64, error)
}

// FeedSource produces finite batches of newest submissions and comments for a
// channel. Each call is a fresh poll; iteration is not resumable mid-batch.
// Fetch failures wrap ErrSourceUnavailable so callers can tell a dead source
// from a genuinely empty page.
type FeedSource interface {
	NewSubmissions(ctx context.Context, channel string, limit int) ([]FeedItem, error)
	NewComments(ctx context.Context, channel string, limit int) ([]FeedItem, error)
}
