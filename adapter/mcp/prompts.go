package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers prompts for documentation research.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("docs_research").
		Description("Answer a question from the indexed documentation, falling back to scraping a page.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			question := args["question"]
			if question == "" {
				question = "the question I am about to ask"
			}
			return &mcp.PromptResult{
				Description: "Documentation research",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Answer %s using the documentation tools.

1. Read ordo://docs/corpora to see which corpora are available.
2. Call search_docs with a short keyword query against the most relevant corpus.
3. If the results do not answer the question, call scrape_web on the page they link to.

Quote the file names you relied on.`, question),
						},
					},
				},
			}, nil
		})

	return nil
}
