package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	docsApp "github.com/felixgeelhaar/ordo/internal/docsearch/application"
)

// DocLibrary is the documentation search and scraping surface the tools use.
type DocLibrary interface {
	Corpora() []string
	Search(ctx context.Context, q docsApp.SearchQuery) (string, error)
	Scrape(ctx context.Context, url string) (string, error)
}

// ToolDependencies provides handlers for MCP tools.
type ToolDependencies struct {
	Docs DocLibrary
}

type addInput struct {
	A int `json:"a" jsonschema:"required"`
	B int `json:"b" jsonschema:"required"`
}

type addResult struct {
	Sum int `json:"sum"`
}

type scrapeInput struct {
	URL string `json:"url" jsonschema:"required"`
}

type scrapeResult struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

type searchInput struct {
	Query  string `json:"query" jsonschema:"required"`
	Corpus string `json:"corpus,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type corpusSearchInput struct {
	Query string `json:"query" jsonschema:"required"`
	Limit int    `json:"limit,omitempty"`
}

type searchResult struct {
	Corpus  string `json:"corpus"`
	Query   string `json:"query"`
	Results string `json:"results"`
}

var errNoDocs = errors.New("documentation search is not configured")

// RegisterTools registers the arithmetic, scraping and doc search tools.
// Each configured corpus also gets a search_<corpus>_docs shorthand.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}

	srv.Tool("add").
		Description("Add two integers").
		Handler(func(ctx context.Context, input addInput) (addResult, error) {
			return addResult{Sum: input.A + input.B}, nil
		})

	srv.Tool("scrape_web").
		Description("Fetch a web page and return its content as markdown").
		Handler(func(ctx context.Context, input scrapeInput) (*scrapeResult, error) {
			return scrapeWeb(ctx, deps.Docs, input)
		})

	corpora := []string{}
	if deps.Docs != nil {
		corpora = deps.Docs.Corpora()
	}

	srv.Tool("search_docs").
		Description(fmt.Sprintf("Search a documentation corpus (%s) and return the top matching files", strings.Join(corpora, ", "))).
		Handler(func(ctx context.Context, input searchInput) (*searchResult, error) {
			return searchDocs(ctx, deps.Docs, input)
		})

	for _, corpus := range corpora {
		srv.Tool("search_" + corpus + "_docs").
			Description(fmt.Sprintf("Search the %s documentation", corpus)).
			Handler(func(ctx context.Context, input corpusSearchInput) (*searchResult, error) {
				return searchDocs(ctx, deps.Docs, searchInput{Query: input.Query, Corpus: corpus, Limit: input.Limit})
			})
	}

	return nil
}

func scrapeWeb(ctx context.Context, docs DocLibrary, input scrapeInput) (*scrapeResult, error) {
	if docs == nil {
		return nil, errNoDocs
	}
	content, err := docs.Scrape(ctx, input.URL)
	if err != nil {
		return nil, err
	}
	return &scrapeResult{URL: input.URL, Content: content}, nil
}

// searchDocs defaults to the first configured corpus when none is named.
func searchDocs(ctx context.Context, docs DocLibrary, input searchInput) (*searchResult, error) {
	if docs == nil {
		return nil, errNoDocs
	}
	corpus := input.Corpus
	if corpus == "" {
		corpora := docs.Corpora()
		if len(corpora) == 0 {
			return nil, errNoDocs
		}
		corpus = corpora[0]
	}

	out, err := docs.Search(ctx, docsApp.SearchQuery{Corpus: corpus, Query: input.Query, Limit: input.Limit})
	if err != nil {
		return nil, err
	}
	return &searchResult{Corpus: corpus, Query: input.Query, Results: out}, nil
}
