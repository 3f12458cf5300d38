// Package keyword indexes documentation corpora in memory with bleve.
package keyword

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/felixgeelhaar/ordo/internal/docsearch/domain"
)

const (
	analyzerName  = "ordo_keyword"
	tokenizerName = "ordo_alnum"

	fieldContent  = "content"
	fieldFilename = "filename"
)

// Index is a bleve memory-only index over content and filename. Documents
// are keyed by filename, so hits with equal scores come back in filename
// order.
type Index struct {
	index bleve.Index
	docs  map[string]domain.Document
}

// Builder builds an Index per corpus.
type Builder struct{}

func NewBuilder() Builder { return Builder{} }

func (Builder) Build(docs []domain.Document) (domain.Index, error) {
	return NewIndex(docs)
}

// NewIndex indexes docs in one batch.
func NewIndex(docs []domain.Document) (*Index, error) {
	m, err := newMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("open keyword index: %w", err)
	}

	byName := make(map[string]domain.Document, len(docs))
	batch := idx.NewBatch()
	for _, d := range docs {
		byName[d.Filename] = d
		if err := batch.Index(d.Filename, map[string]any{
			fieldContent:  d.Content,
			fieldFilename: d.Filename,
		}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index %s: %w", d.Filename, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("write keyword index: %w", err)
	}
	return &Index{index: idx, docs: byName}, nil
}

// newMapping splits on anything that is not a letter or digit, lowercases,
// and drops English stop words. Paths like "servers/tools.mdx" therefore
// match "tools".
func newMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()
	if err := m.AddCustomTokenizer(tokenizerName, map[string]any{
		"type":   regexp.Name,
		"regexp": `[\p{L}\p{N}]+`,
	}); err != nil {
		return nil, fmt.Errorf("register tokenizer: %w", err)
	}
	if err := m.AddCustomAnalyzer(analyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     tokenizerName,
		"token_filters": []string{lowercase.Name, en.StopName},
	}); err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}

	text := func() *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = analyzerName
		f.Store = false
		f.IncludeInAll = false
		return f
	}
	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false
	doc.AddFieldMappingsAt(fieldContent, text())
	doc.AddFieldMappingsAt(fieldFilename, text())

	m.DefaultMapping = doc
	m.DefaultAnalyzer = analyzerName
	return m, nil
}

func (ix *Index) Len() int { return len(ix.docs) }

// Search runs a boosted match on both fields.
func (ix *Index) Search(query string, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = domain.DefaultResultLimit
	}

	content := bleve.NewMatchQuery(query)
	content.SetField(fieldContent)
	content.SetBoost(domain.ContentBoost)
	filename := bleve.NewMatchQuery(query)
	filename.SetField(fieldFilename)
	filename.SetBoost(domain.FilenameBoost)

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(content, filename), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	out := make([]domain.Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if d, ok := ix.docs[hit.ID]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// Close releases the index.
func (ix *Index) Close() error { return ix.index.Close() }
