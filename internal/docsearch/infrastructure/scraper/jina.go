// Package scraper renders web pages to markdown through a reader proxy.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/ordo/internal/docsearch/domain"
)

// DefaultBaseURL is the Jina Reader endpoint; the target URL is appended.
const DefaultBaseURL = "https://r.jina.ai/"

// maxBody caps how much of a page is returned.
const maxBody = 4 << 20

// ReaderScraper implements domain.PageScraper.
type ReaderScraper struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

// NewReaderScraper creates a scraper. An empty baseURL uses DefaultBaseURL.
func NewReaderScraper(baseURL string, client *http.Client, logger *slog.Logger) *ReaderScraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReaderScraper{
		baseURL: baseURL,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "scraper",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (s *ReaderScraper) Scrape(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", domain.ErrEmptyURL
	}

	body, err := s.breaker.Execute(func() (string, error) {
		return s.get(ctx, s.baseURL+url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: reader unavailable", domain.ErrScrapeFailed)
	}
	return body, err
}

func (s *ReaderScraper) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", domain.ErrScrapeFailed, target, resp.Status)
	}
	return string(data), nil
}
