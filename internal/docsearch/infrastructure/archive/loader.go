// Package archive loads documentation corpora from zip archives, fetching
// remote archives once and keeping them on disk.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/ordo/internal/docsearch/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/security"
)

// ReadZip returns every markdown entry of the archive at path.
func ReadZip(path string) ([]domain.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	var docs []domain.Document
	for _, f := range zr.File {
		if !domain.IsMarkdown(f.Name) {
			continue
		}
		name := domain.StripRoot(f.Name)
		if name == "" {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		docs = append(docs, domain.Document{Filename: name, Content: content})
	}
	return docs, nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Loader resolves corpus locations to documents. Locations starting with
// http:// or https:// are downloaded into cacheDir on first use.
type Loader struct {
	client   *http.Client
	cacheDir string
	breaker  *gobreaker.CircuitBreaker[string]
	logger   *slog.Logger
}

// NewLoader creates a loader. A nil client uses a client with a five minute
// timeout.
func NewLoader(cacheDir string, client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client:   client,
		cacheDir: cacheDir,
		logger:   logger,
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "docs-archive",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Load implements domain.CorpusSource.
func (l *Loader) Load(ctx context.Context, name, location string) ([]domain.Document, error) {
	var (
		path string
		err  error
	)
	if isRemote(location) {
		path, err = l.fetch(ctx, name, location)
	} else {
		path, err = security.CleanPath(location)
	}
	if err != nil {
		return nil, err
	}
	docs, err := ReadZip(path)
	if err != nil {
		return nil, err
	}
	l.logger.Info("documentation corpus loaded", "corpus", name, "documents", len(docs))
	return docs, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// CachePath is where the archive for corpus name is kept. Names that would
// place it outside the cache directory are rejected.
func (l *Loader) CachePath(name string) (string, error) {
	return security.PathInDir(filepath.Join(l.cacheDir, name+".zip"), l.cacheDir)
}

func (l *Loader) fetch(ctx context.Context, name, url string) (string, error) {
	path, err := l.CachePath(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return l.breaker.Execute(func() (string, error) {
		if err := l.download(ctx, url, path); err != nil {
			return "", fmt.Errorf("download %s archive: %w", name, err)
		}
		l.logger.Info("documentation archive downloaded", "corpus", name, "path", path)
		return path, nil
	})
}

func (l *Loader) download(ctx context.Context, url, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
