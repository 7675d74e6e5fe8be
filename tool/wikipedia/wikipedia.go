// Package wikipedia provides a capability that fetches the summary of a
// Wikipedia page through the public REST API.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/reactloop/tool"
)

// DefaultEndpoint is the summary endpoint; %s is replaced by the language code.
const DefaultEndpoint = "https://%s.wikipedia.org/api/rest_v1/page/summary/"

// Options configures the tool.
type Options struct {
	// Endpoint is a format string with one %s for the language code.
	Endpoint string
	// UserAgent is sent with every request; Wikimedia rejects anonymous clients.
	UserAgent string
	// HTTPClient overrides the default client (15s timeout).
	HTTPClient *http.Client
	// DefaultLang is used when the model omits lang.
	DefaultLang string
}

// Tool implements get_wikipedia_summary.
type Tool struct {
	opts Options
}

var _ tool.Tool = (*Tool)(nil)

// New creates the tool.
func New(optFns ...func(o *Options)) *Tool {
	opts := Options{
		Endpoint:    DefaultEndpoint,
		UserAgent:   "reactloop-agent",
		DefaultLang: "en",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Tool{opts: opts}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "get_wikipedia_summary" }

// Description implements tool.Tool.
func (t *Tool) Description() string { return "Fetches the summary of a Wikipedia page" }

// Schema implements tool.Tool.
func (t *Tool) Schema() tool.Schema {
	return tool.NewSchema(
		tool.Parameter{Name: "topic", Type: tool.String, Description: "The topic to search on Wikipedia"},
		tool.Parameter{Name: "lang", Type: tool.String, Description: `The language code (default is English: "en")`, Optional: true},
	)
}

type summaryResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// Call fetches the page summary. A missing page is a normal answer, not an error.
func (t *Tool) Call(ctx context.Context, args tool.Args) (any, error) {
	topic := strings.TrimSpace(args.String("topic"))
	if topic == "" {
		return nil, fmt.Errorf("wikipedia: topic is empty")
	}
	lang := args.String("lang")
	if lang == "" {
		lang = t.opts.DefaultLang
	}

	title := url.PathEscape(strings.ReplaceAll(topic, " ", "_"))
	reqURL := fmt.Sprintf(t.opts.Endpoint, url.PathEscape(lang)) + title

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.opts.UserAgent)

	resp, err := t.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("No Wikipedia page found for '%s'.", topic), nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("wikipedia: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("wikipedia: decode response: %w", err)
	}
	if sr.Extract == "" {
		return fmt.Sprintf("No Wikipedia page found for '%s'.", topic), nil
	}

	return sr.Extract, nil
}
