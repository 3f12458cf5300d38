// Package application answers documentation searches and scrape requests.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/ordo/internal/docsearch/domain"
)

// Library keeps one lazily built index per configured corpus.
type Library struct {
	sources map[string]string
	loader  domain.CorpusSource
	indexer domain.IndexBuilder
	scraper domain.PageScraper
	logger  *slog.Logger

	mu      sync.Mutex
	indexes map[string]domain.Index
}

// NewLibrary creates a library over sources, a map of corpus name to
// archive location.
func NewLibrary(sources map[string]string, loader domain.CorpusSource, indexer domain.IndexBuilder, scraper domain.PageScraper, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		sources: sources,
		loader:  loader,
		indexer: indexer,
		scraper: scraper,
		logger:  logger,
		indexes: make(map[string]domain.Index),
	}
}

// Corpora lists the configured corpus names, sorted.
func (l *Library) Corpora() []string {
	names := make([]string, 0, len(l.sources))
	for name, loc := range l.sources {
		if loc != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SearchQuery asks one corpus for the best matches.
type SearchQuery struct {
	Corpus string
	Query  string
	Limit  int
}

// Search returns the formatted top matches.
func (l *Library) Search(ctx context.Context, q SearchQuery) (string, error) {
	if strings.TrimSpace(q.Query) == "" {
		return "", domain.ErrEmptyQuery
	}
	ix, err := l.index(ctx, q.Corpus)
	if err != nil {
		return "", err
	}
	limit := q.Limit
	if limit <= 0 || limit > domain.DefaultResultLimit {
		limit = domain.DefaultResultLimit
	}
	docs, err := ix.Search(q.Query, limit)
	if err != nil {
		return "", err
	}
	return domain.Format(docs), nil
}

// Scrape fetches url as markdown.
func (l *Library) Scrape(ctx context.Context, url string) (string, error) {
	return l.scraper.Scrape(ctx, url)
}

// Warm builds every configured index.
func (l *Library) Warm(ctx context.Context) error {
	for _, name := range l.Corpora() {
		if _, err := l.index(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// index loads a corpus on first use. The lock is held while loading so a
// corpus is fetched at most once.
func (l *Library) index(ctx context.Context, corpus string) (domain.Index, error) {
	location, ok := l.sources[corpus]
	if !ok || location == "" {
		return nil, fmt.Errorf("%w: %q (available: %s)", domain.ErrUnknownCorpus, corpus, strings.Join(l.Corpora(), ", "))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if ix, ok := l.indexes[corpus]; ok {
		return ix, nil
	}

	docs, err := l.loader.Load(ctx, corpus, location)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", corpus, err)
	}
	ix, err := l.indexer.Build(docs)
	if err != nil {
		return nil, fmt.Errorf("index corpus %s: %w", corpus, err)
	}
	l.indexes[corpus] = ix
	l.logger.Debug("documentation index built", "corpus", corpus, "documents", ix.Len())
	return ix, nil
}
