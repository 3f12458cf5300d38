package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/docsearch/domain"
)

func TestReaderScraper_Scrape(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("# Example Domain"))
	}))
	defer srv.Close()

	s := NewReaderScraper(srv.URL, srv.Client(), nil)
	out, err := s.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, "# Example Domain", out)
	assert.Equal(t, "/https://example.com", gotPath)
}

func TestReaderScraper_EmptyURL(t *testing.T) {
	s := NewReaderScraper("http://unused", nil, nil)
	_, err := s.Scrape(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyURL)
}

func TestReaderScraper_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewReaderScraper(srv.URL, srv.Client(), nil)
	_, err := s.Scrape(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, domain.ErrScrapeFailed)
}

func TestReaderScraper_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewReaderScraper(srv.URL, srv.Client(), nil)
	for range 5 {
		_, err := s.Scrape(context.Background(), "https://example.com")
		require.Error(t, err)
	}
	_, err := s.Scrape(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, domain.ErrScrapeFailed)
	assert.Equal(t, int32(5), hits.Load())
}
