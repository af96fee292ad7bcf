package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendsview/internal/config"
)

const maxAttempts = 5

// StatusError is a non-2xx listing page response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("trends page %s: status %d", e.URL, e.StatusCode)
}

// Client downloads listing pages of the trends site.
type Client struct {
	httpClient *http.Client
	limiter    *RateLimiter
	userAgent  string
	backoff    func(attempt int) time.Duration
}

func NewClient(cfg config.ScraperConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.RateLimitRPS),
		userAgent:  cfg.UserAgent,
		backoff:    jitterBackoff,
	}
}

// FetchPage downloads pageURL and parses it. 429 and 5xx responses are retried
// with backoff; other failures are returned at once.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				lastErr = statusErr
				if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, statusErr
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("trends page request failed")
	}
	return nil, lastErr
}

func jitterBackoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
