package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ShakerZed/bjjfanaticsdb/internal/trends"
)

const monthLayout = "2006-01"

func (s *Server) handleSummary(c echo.Context) error {
	summary, err := s.app.Summary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "summary unavailable").SetInternal(err)
	}

	if err := c.JSON(http.StatusOK, summary); err != nil {
		return fmt.Errorf("failed to write summary response: %w", err)
	}
	return nil
}

// trendsResponse is the wire shape of a trends query: a shared month axis in
// "YYYY-MM" form plus one value row per entry.
type trendsResponse struct {
	Months  []string      `json:"months"`
	Entries []trendsEntry `json:"entries"`
}

type trendsEntry struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func (s *Server) handleTrends(c echo.Context) error {
	opts, err := s.parseTrendsOptions(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	series, err := s.app.Trends(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "trends unavailable").SetInternal(err)
	}

	response := trendsResponse{
		Months:  make([]string, len(series.Months)),
		Entries: make([]trendsEntry, len(series.Entries)),
	}
	for i, m := range series.Months {
		response.Months[i] = m.Format(monthLayout)
	}
	for i, entry := range series.Entries {
		response.Entries[i] = trendsEntry{Name: entry.Name, Values: entry.Values}
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write trends response: %w", err)
	}
	return nil
}

// parseTrendsOptions starts from the configured defaults and applies query
// overrides: top_n, cap_k, normalize, smooth.
func (s *Server) parseTrendsOptions(c echo.Context) (trends.Options, error) {
	opts := s.app.TrendsOptions()

	if raw := c.QueryParam("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("top_n must be a positive integer, got %q", raw)
		}
		opts.TopN = n
	}

	if raw := c.QueryParam("cap_k"); raw != "" {
		k, err := strconv.ParseFloat(raw, 64)
		if err != nil || k <= 0 {
			return opts, fmt.Errorf("cap_k must be a positive number, got %q", raw)
		}
		opts.CapK = k
	}

	if raw := c.QueryParam("normalize"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("normalize must be a boolean, got %q", raw)
		}
		opts.Normalize = v
	}

	if raw := c.QueryParam("smooth"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 0 {
			return opts, fmt.Errorf("smooth must be a non-negative integer, got %q", raw)
		}
		opts.SmoothWindow = w
	}

	return opts, nil
}
