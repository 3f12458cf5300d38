package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources exposes the configured documentation corpora.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Resource("ordo://docs/corpora").
		Name("Documentation corpora").
		Description("Names of the documentation corpora search_docs accepts").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			corpora := []string{}
			if deps.Docs != nil {
				corpora = deps.Docs.Corpora()
			}
			data, err := json.MarshalIndent(map[string]any{"corpora": corpora}, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})

	return nil
}
