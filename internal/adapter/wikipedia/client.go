// Package wikipedia fetches city article markup over HTTP with a descriptive
// bot identity, bounded timeouts, and a small fixed retry budget for
// transient network failures.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

// Client fetches raw article pages. It owns no pacing state; the pipeline
// calls the Pacer before each Fetch.
type Client struct {
	httpClient *http.Client
	userAgent  string
	attempts   int
	backoff    time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
}

// Options configures a Client. Zero values fall back to conservative defaults.
type Options struct {
	Timeout   time.Duration   // per-request timeout
	UserAgent string
	Attempts  int             // total attempts including the first
	Backoff   time.Duration   // fixed delay between attempts
	Clock     clockwork.Clock
}

// NewClient creates a Wikipedia page fetcher.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Attempts < 1 {
		opts.Attempts = 3
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		attempts:   opts.Attempts,
		backoff:    opts.Backoff,
		clock:      opts.Clock,
		logger:     logger,
	}
}

// Fetch retrieves the page at url. Transport failures (reset, timeout) are
// retried up to the attempt budget with a fixed backoff; a definitive HTTP
// status is returned immediately without retry, since a 404 will not
// self-resolve two seconds later.
func (c *Client) Fetch(ctx context.Context, url string) (*domain.RawPage, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			c.logger.Warn("retrying fetch", "url", url, "attempt", attempt, "error", lastErr)
			if err := c.sleep(ctx, c.backoff); err != nil {
				return nil, err
			}
		}

		page, retryable, err := c.fetchOnce(ctx, url)
		if err == nil {
			return page, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch %s: attempts exhausted: %w", url, lastErr)
}

// fetchOnce performs a single request. retryable reports whether the failure
// was a transport fault worth another attempt.
func (c *Client) fetchOnce(ctx context.Context, url string) (page *domain.RawPage, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, false, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body of %s: %w", url, err)
	}

	return &domain.RawPage{
		Body:      body,
		URL:       url,
		FetchedAt: c.clock.Now(),
	}, false, nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(d):
		return nil
	}
}
