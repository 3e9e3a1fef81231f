package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/retry"
)

const (
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIBase  = "https://oauth.reddit.com"

	httpCallTimeout  = 10 * time.Second
	tokenExpirySlack = 60 * time.Second

	retryMaxAttempts      = 3
	retryInitialBackoff   = 1 * time.Second
	retryRateLimitBackoff = 30 * time.Second
)

// Client fetches subreddit listings through the OAuth API using the
// client-credentials ("application only") grant. App tokens are cached until
// shortly before expiry. Safe for concurrent use.
type Client struct {
	clientID     string
	clientSecret string
	userAgent    string

	tokenURL string // configurable for testing
	apiBase  string // configurable for testing

	httpClient *http.Client

	initialBackoff   time.Duration
	rateLimitBackoff time.Duration

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(clientID, clientSecret, userAgent string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     defaultTokenURL,
		apiBase:      defaultAPIBase,
		httpClient:   &http.Client{Timeout: httpCallTimeout},

		initialBackoff:   retryInitialBackoff,
		rateLimitBackoff: retryRateLimitBackoff,
	}
}

// NewSubmissions returns the newest submissions in the channel, title and
// selftext joined as the item text.
func (c *Client) NewSubmissions(ctx context.Context, channel string, limit int) ([]domain.FeedItem, error) {
	listing, err := c.fetchListing(ctx, "/r/"+channel+"/new", limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch submissions for r/%s: %w", domain.ErrSourceUnavailable, channel, err)
	}

	items := make([]domain.FeedItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		text := d.Title
		if d.SelfText != "" {
			text += " " + d.SelfText
		}
		items = append(items, domain.FeedItem{
			SourceID:  d.ID,
			Text:      text,
			URL:       d.URL,
			CreatedAt: domain.FormatTimestamp(time.Unix(int64(d.CreatedUTC), 0)),
		})
	}
	return items, nil
}

// NewComments returns the newest comments in the channel.
func (c *Client) NewComments(ctx context.Context, channel string, limit int) ([]domain.FeedItem, error) {
	listing, err := c.fetchListing(ctx, "/r/"+channel+"/comments", limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch comments for r/%s: %w", domain.ErrSourceUnavailable, channel, err)
	}

	items := make([]domain.FeedItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		items = append(items, domain.FeedItem{
			SourceID:  d.ID,
			Text:      d.Body,
			URL:       "https://www.reddit.com" + d.Permalink,
			CreatedAt: domain.FormatTimestamp(time.Unix(int64(d.CreatedUTC), 0)),
		})
	}
	return items, nil
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				Body       string  `json:"body"`
				URL        string  `json:"url"`
				Permalink  string  `json:"permalink"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Client) fetchListing(ctx context.Context, path string, limit int) (*listing, error) {
	policy := retry.Policy{
		MaxAttempts:      retryMaxAttempts,
		InitialBackoff:   c.initialBackoff,
		RateLimitBackoff: c.rateLimitBackoff,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("retrying listing fetch", "path", path, "attempt", attempt, "backoff", backoff, "error", err)
		},
	}

	return retry.Do(ctx, policy, classifyFetchError, func() (*listing, error) {
		return c.doFetchListing(ctx, path, limit)
	})
}

func (c *Client) doFetchListing(ctx context.Context, path string, limit int) (*listing, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}
	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result listing
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return &result, nil
}

// ensureToken returns a cached app token, fetching a fresh one when the cached
// token expires within tokenExpirySlack.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(tokenExpirySlack).Before(c.tokenExpiry) {
		return c.token, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &statusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", errors.New("no access token returned")
	}

	c.token = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.token, nil
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// classifyFetchError maps rate limiting to the long backoff, server errors to
// normal backoff, and everything else 4xx to a permanent stop.
func classifyFetchError(err error) retry.Action {
	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusTooManyRequests:
			return retry.After
		case se.Code >= 500:
			return retry.Retry
		default:
			return retry.Stop
		}
	}
	return retry.Retry
}
