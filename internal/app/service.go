package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
	"github.com/ShakerZed/bjjfanaticsdb/internal/matcher"
	"github.com/ShakerZed/bjjfanaticsdb/internal/metrics"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/correlation"
	"github.com/ShakerZed/bjjfanaticsdb/internal/trends"
)

// PipelineConfig carries the scrape and reporting settings a Service runs
// with. Channel is the subreddit name without the "r/" prefix.
type PipelineConfig struct {
	Channel         string
	SubmissionLimit int
	CommentLimit    int
	DedupMode       domain.DedupMode

	TopN         int
	CapK         float64
	Normalize    bool
	SmoothWindow int
}

// Service is the application layer — the only component that references
// multiple domain components. It orchestrates all use cases.
type Service struct {
	catalog  domain.CatalogRepository
	mentions domain.MentionRepository
	feed     domain.FeedSource
	clock    clockwork.Clock
	cfg      PipelineConfig
}

func NewService(catalog domain.CatalogRepository, mentions domain.MentionRepository, feed domain.FeedSource, clock clockwork.Clock, cfg PipelineConfig) *Service {
	return &Service{
		catalog:  catalog,
		mentions: mentions,
		feed:     feed,
		clock:    clock,
		cfg:      cfg,
	}
}

// PassReport summarizes one scrape pass.
type PassReport struct {
	Scanned  int
	Recorded int
	Dedup    *domain.DedupResult
}

// RunPass executes one full scrape pass: load the catalog, scan the newest
// submissions and comments, record every match, then run the configured dedup
// pass. A failing stage does not abort later stages; everything recorded
// before a failure stays recorded. The returned error joins all stage
// failures.
func (s *Service) RunPass(ctx context.Context) (PassReport, error) {
	ctx = correlation.WithID(ctx, uuid.NewString())
	start := s.clock.Now()
	defer func() {
		metrics.PassDuration.Observe(s.clock.Since(start).Seconds())
	}()

	var report PassReport

	names, err := s.catalog.ListNames(ctx)
	if err != nil {
		metrics.ScrapeErrors.WithLabelValues("catalog").Inc()
		return report, fmt.Errorf("scrape pass aborted: %w", err)
	}

	m := matcher.New(names)
	slog.InfoContext(ctx, "scrape pass started", "channel", s.cfg.Channel, "catalog_size", m.Size())

	var stageErrs []error

	subs, err := s.feed.NewSubmissions(ctx, s.cfg.Channel, s.cfg.SubmissionLimit)
	if err != nil {
		metrics.ScrapeErrors.WithLabelValues("submissions").Inc()
		slog.WarnContext(ctx, "submission fetch failed", "error", err)
		stageErrs = append(stageErrs, err)
	} else {
		scanned, recorded, err := s.scanItems(ctx, subs, domain.SourceSubmission, m)
		report.Scanned += scanned
		report.Recorded += recorded
		if err != nil {
			stageErrs = append(stageErrs, err)
		}
	}

	comments, err := s.feed.NewComments(ctx, s.cfg.Channel, s.cfg.CommentLimit)
	if err != nil {
		metrics.ScrapeErrors.WithLabelValues("comments").Inc()
		slog.WarnContext(ctx, "comment fetch failed", "error", err)
		stageErrs = append(stageErrs, err)
	} else {
		scanned, recorded, err := s.scanItems(ctx, comments, domain.SourceComment, m)
		report.Scanned += scanned
		report.Recorded += recorded
		if err != nil {
			stageErrs = append(stageErrs, err)
		}
	}

	result, err := s.Dedup(ctx, s.cfg.DedupMode)
	if err != nil {
		metrics.ScrapeErrors.WithLabelValues("dedup").Inc()
		slog.WarnContext(ctx, "dedup pass failed", "mode", s.cfg.DedupMode, "error", err)
		stageErrs = append(stageErrs, err)
	} else {
		report.Dedup = result
	}

	slog.InfoContext(ctx, "scrape pass finished",
		"scanned", report.Scanned, "recorded", report.Recorded, "errors", len(stageErrs))
	return report, errors.Join(stageErrs...)
}

// scanItems matches every item against the catalog and records one mention
// event per matched name. A failed write is logged and skipped so one bad row
// cannot sink the batch.
func (s *Service) scanItems(ctx context.Context, items []domain.FeedItem, typ domain.SourceType, m *matcher.Matcher) (scanned, recorded int, err error) {
	var writeErrs []error
	for _, item := range items {
		scanned++
		metrics.ItemsScanned.WithLabelValues(string(typ)).Inc()

		for _, name := range m.Match(item.Text) {
			event := domain.MentionEvent{
				Timestamp: item.CreatedAt,
				Type:      typ,
				SourceID:  item.SourceID,
				URL:       item.URL,
				EntryName: name,
			}
			if err := s.mentions.Record(ctx, event); err != nil {
				metrics.ScrapeErrors.WithLabelValues("record").Inc()
				slog.WarnContext(ctx, "failed to record mention",
					"entry", name, "source_id", item.SourceID, "error", err)
				writeErrs = append(writeErrs, err)
				continue
			}
			recorded++
			metrics.MentionsRecorded.WithLabelValues(string(typ)).Inc()
		}
	}
	return scanned, recorded, errors.Join(writeErrs...)
}

// Dedup runs the duplicate-removal pass for the given mode. DedupNone returns
// a nil result without touching the store.
func (s *Service) Dedup(ctx context.Context, mode domain.DedupMode) (*domain.DedupResult, error) {
	var (
		result domain.DedupResult
		err    error
	)
	switch mode {
	case domain.DedupNone:
		return nil, nil
	case domain.DedupExact:
		result, err = s.mentions.DedupExact(ctx)
	case domain.DedupSoft:
		result, err = s.mentions.DedupSoft(ctx)
	default:
		return nil, fmt.Errorf("unknown dedup mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	metrics.DedupRowsRemoved.WithLabelValues(string(mode)).Add(float64(result.Removed))
	if result.Removed > 0 {
		slog.InfoContext(ctx, "removed duplicate mentions",
			"mode", mode, "removed", result.Removed, "remaining", result.Remaining)
	}
	return &result, nil
}

// SummaryReport is the ranked-tally reporting view over the whole store.
type SummaryReport struct {
	Total  int                 `json:"total"`
	Tally  []trends.TallyEntry `json:"tally"`
	Bounds *domain.Bounds      `json:"bounds,omitempty"`
}

// Summary builds the tally view: total event count, per-entry counts ranked
// descending, and the stored timestamp range.
func (s *Service) Summary(ctx context.Context) (*SummaryReport, error) {
	events, err := s.mentions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	bounds, err := s.mentions.Bounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	return &SummaryReport{
		Total:  trends.TotalCount(events),
		Tally:  trends.Tally(events),
		Bounds: bounds,
	}, nil
}

// Trends aggregates the store into monthly series using the given options.
func (s *Service) Trends(ctx context.Context, opts trends.Options) (trends.Series, error) {
	events, err := s.mentions.All(ctx)
	if err != nil {
		return trends.Series{}, fmt.Errorf("failed to build trends: %w", err)
	}
	return trends.Aggregate(events, opts), nil
}

// TrendsOptions returns the configured default aggregation options, used when
// a caller does not override them.
func (s *Service) TrendsOptions() trends.Options {
	return trends.Options{
		TopN:         s.cfg.TopN,
		CapK:         s.cfg.CapK,
		Normalize:    s.cfg.Normalize,
		SmoothWindow: s.cfg.SmoothWindow,
	}
}

// VerifyTimestamps clamps stored timestamps that lie in the future down to
// the current time and reports how many rows changed.
func (s *Service) VerifyTimestamps(ctx context.Context) (int64, error) {
	clamped, err := s.mentions.ClampFutureTimestamps(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to verify timestamps: %w", err)
	}
	metrics.TimestampsClamped.Add(float64(clamped))
	if clamped > 0 {
		slog.InfoContext(ctx, "clamped future timestamps", "rows", clamped)
	}
	return clamped, nil
}
