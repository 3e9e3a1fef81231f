package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ShakerZed/bjjfanaticsdb/internal/app"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/config"
	"github.com/ShakerZed/bjjfanaticsdb/internal/trends"
)

// reportingService is the slice of the application layer the HTTP surface
// needs: read-only summary and trend views.
type reportingService interface {
	Summary(ctx context.Context) (*app.SummaryReport, error)
	Trends(ctx context.Context, opts trends.Options) (trends.Series, error)
	TrendsOptions() trends.Options
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app          reportingService
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app reportingService, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
