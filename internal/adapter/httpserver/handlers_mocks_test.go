package httpserver

import (
	"context"
	"fmt"
	"testing"

	"github.com/ShakerZed/bjjfanaticsdb/internal/app"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/config"
	"github.com/ShakerZed/bjjfanaticsdb/internal/trends"
)

type mockReportingService struct {
	summaryFn func(ctx context.Context) (*app.SummaryReport, error)
	trendsFn  func(ctx context.Context, opts trends.Options) (trends.Series, error)
	defaults  trends.Options
}

func (m *mockReportingService) Summary(ctx context.Context) (*app.SummaryReport, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockReportingService) Trends(ctx context.Context, opts trends.Options) (trends.Series, error) {
	if m.trendsFn != nil {
		return m.trendsFn(ctx, opts)
	}
	return trends.Series{}, fmt.Errorf("not implemented")
}

func (m *mockReportingService) TrendsOptions() trends.Options {
	return m.defaults
}

type serverOption func(*Server)

func withHealthChecks(checks ...HealthCheck) serverOption {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func newTestServer(t *testing.T, svc reportingService, opts ...serverOption) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv: "development",
		Port:   "8080",
	}

	srv := NewServer(cfg, svc, nil)
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}
