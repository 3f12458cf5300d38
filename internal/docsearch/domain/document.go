// Package domain holds documentation corpora and the keyword index over
// them.
package domain

import (
	"context"
	"strings"
)

// DefaultResultLimit is how many documents a search returns.
const DefaultResultLimit = 5

// Document is one markdown file of a corpus.
type Document struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// IsMarkdown reports whether name is a file the loader keeps.
func IsMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".mdx")
}

// StripRoot removes the first path component, the directory GitHub puts
// every archive entry under.
func StripRoot(name string) string {
	if _, rest, ok := strings.Cut(name, "/"); ok {
		return rest
	}
	return name
}

// Format renders results as markdown sections separated by rules.
func Format(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, "## "+d.Filename+"\n\n"+d.Content+"\n")
	}
	return strings.Join(parts, "\n---\n")
}

// CorpusSource loads the documents of a named corpus.
type CorpusSource interface {
	Load(ctx context.Context, name, location string) ([]Document, error)
}

// PageScraper fetches a web page rendered as markdown.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}
