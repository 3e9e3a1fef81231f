package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
)

// wellFormedTS guards maintenance passes so rows with unparsable timestamps
// are never rewritten or compared as times.
const wellFormedTS = `ts ~ '^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$'`

type MentionRepo struct {
	pool *pgxpool.Pool
}

func NewMentionRepo(pool *pgxpool.Pool) *MentionRepo {
	return &MentionRepo{pool: pool}
}

// Record appends one mention event. Duplicate content is accepted; removal is
// a separate dedup pass.
func (r *MentionRepo) Record(ctx context.Context, event domain.MentionEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO mentions (ts, type, source_id, url, entry_name)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.Timestamp, string(event.Type), event.SourceID, event.URL, event.EntryName)
	if err != nil {
		return fmt.Errorf("%w: failed to record mention: %w", domain.ErrStorage, err)
	}
	return nil
}

// DedupExact removes rows sharing (ts, source_id, entry_name), keeping the
// lowest id of each group.
func (r *MentionRepo) DedupExact(ctx context.Context) (domain.DedupResult, error) {
	return r.dedup(ctx, "ts, source_id, entry_name")
}

// DedupSoft removes rows sharing (source_id, entry_name) regardless of
// timestamp, keeping the lowest id of each group.
func (r *MentionRepo) DedupSoft(ctx context.Context) (domain.DedupResult, error) {
	return r.dedup(ctx, "source_id, entry_name")
}

func (r *MentionRepo) dedup(ctx context.Context, groupBy string) (domain.DedupResult, error) {
	var result domain.DedupResult

	query := fmt.Sprintf(
		`DELETE FROM mentions
		 WHERE id NOT IN (SELECT MIN(id) FROM mentions GROUP BY %s)`, groupBy)
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return result, fmt.Errorf("%w: failed to remove duplicate mentions: %w", domain.ErrStorage, err)
	}
	result.Removed = tag.RowsAffected()

	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM mentions").Scan(&result.Remaining); err != nil {
		return result, fmt.Errorf("%w: failed to count remaining mentions: %w", domain.ErrStorage, err)
	}
	return result, nil
}

// All returns every stored mention event in insertion order.
func (r *MentionRepo) All(ctx context.Context) ([]domain.MentionEvent, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, ts, type, source_id, url, entry_name FROM mentions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list mentions: %w", domain.ErrStorage, err)
	}

	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.MentionEvent])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan mentions: %w", domain.ErrStorage, err)
	}
	return events, nil
}

// Bounds returns the earliest and latest stored timestamps by text order, or
// nil when the store is empty.
func (r *MentionRepo) Bounds(ctx context.Context) (*domain.Bounds, error) {
	var earliest, latest *string
	err := r.pool.QueryRow(ctx, "SELECT MIN(ts), MAX(ts) FROM mentions").Scan(&earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read timestamp bounds: %w", domain.ErrStorage, err)
	}
	if earliest == nil {
		return nil, nil
	}
	return &domain.Bounds{Earliest: *earliest, Latest: *latest}, nil
}

// ClampFutureTimestamps rewrites well-formed timestamps later than now to now,
// returning how many rows changed. Malformed timestamps are left alone.
func (r *MentionRepo) ClampFutureTimestamps(ctx context.Context, now time.Time) (int64, error) {
	nowText := domain.FormatTimestamp(now)
	tag, err := r.pool.Exec(ctx,
		"UPDATE mentions SET ts = $1 WHERE ts > $1 AND "+wellFormedTS, nowText)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to clamp future timestamps: %w", domain.ErrStorage, err)
	}
	return tag.RowsAffected(), nil
}
