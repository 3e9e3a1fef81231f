// Package trends turns stored mention events into reporting views.
//
// Aggregate builds dense, month-bucketed time series for the most-mentioned
// catalog entries, with per-entry outlier capping and optional normalization
// and smoothing. The summary functions (TotalCount, Tally, TimestampBounds)
// are the ranked-tally side of reporting. Everything here is a pure function
// over an event slice; rendering belongs to external consumers.
package trends
