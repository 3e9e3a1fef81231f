package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scrape Pipeline Metrics
var (
	// ItemsScanned tracks feed items fetched and scanned for mentions, by source type
	ItemsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_items_scanned_total",
			Help: "Feed items scanned for catalog mentions, by source type",
		},
		[]string{"type"},
	)

	// MentionsRecorded tracks mention events written to the store, by source type
	MentionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_mentions_recorded_total",
			Help: "Mention events recorded, by source type",
		},
		[]string{"type"},
	)

	// ScrapeErrors tracks pass failures by pipeline stage (catalog, submissions, comments, dedup)
	ScrapeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_errors_total",
			Help: "Scrape pass errors by pipeline stage",
		},
		[]string{"stage"},
	)

	// PassDuration tracks full scrape pass latency in seconds
	PassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_pass_duration_seconds",
			Help:    "Full scrape pass duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// Store Maintenance Metrics
var (
	// DedupRowsRemoved tracks duplicate mention rows deleted, by dedup mode
	DedupRowsRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_dedup_rows_removed_total",
			Help: "Duplicate mention rows removed, by dedup mode",
		},
		[]string{"mode"},
	)

	// TimestampsClamped tracks stored timestamps rewritten because they were in the future
	TimestampsClamped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_timestamps_clamped_total",
			Help: "Stored timestamps clamped to the current time",
		},
	)
)
