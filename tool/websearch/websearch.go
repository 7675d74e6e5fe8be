// Package websearch provides a capability that searches the web through a
// pluggable provider (SearXNG or Brave).
package websearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/reactloop/tool"
)

const (
	// DefaultNumResults is used when the model omits num_results.
	DefaultNumResults = 10
	// MaxNumResults caps num_results.
	MaxNumResults = 20
)

// Tool implements web_search.
type Tool struct {
	provider Provider
}

var _ tool.Tool = (*Tool)(nil)

// New creates the tool on top of provider.
func New(provider Provider) *Tool {
	return &Tool{provider: provider}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "web_search" }

// Description implements tool.Tool.
func (t *Tool) Description() string {
	return "Searches the web and returns a list of results with title, url and snippet"
}

// Schema implements tool.Tool.
func (t *Tool) Schema() tool.Schema {
	return tool.NewSchema(
		tool.Parameter{Name: "query", Type: tool.String, Description: "The search query"},
		tool.Parameter{
			Name:        "num_results",
			Type:        tool.Integer,
			Description: fmt.Sprintf("Number of results to return (1-%d, default %d)", MaxNumResults, DefaultNumResults),
			Optional:    true,
		},
	)
}

// Call runs the query. An empty result list is a normal answer.
func (t *Tool) Call(ctx context.Context, args tool.Args) (any, error) {
	query := strings.TrimSpace(args.String("query"))
	if query == "" {
		return nil, fmt.Errorf("web_search: query is empty")
	}

	n := DefaultNumResults
	if args.Has("num_results") {
		n = args.Int("num_results")
		if n < 1 || n > MaxNumResults {
			return nil, fmt.Errorf("web_search: num_results must be between 1 and %d, got %d", MaxNumResults, n)
		}
	}

	results, err := t.provider.Search(ctx, query, n)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'.", query), nil
	}
	return results, nil
}
