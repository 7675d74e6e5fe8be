package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Provider is a web search backend.
type Provider interface {
	// Name returns the provider identifier (e.g. "searxng", "brave").
	Name() string

	// Search returns at most count results for query. A count below one
	// selects DefaultNumResults.
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// SearXNG queries the JSON API of a SearXNG instance.
type SearXNG struct {
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*SearXNG)(nil)

// NewSearXNG creates a provider for the instance rooted at baseURL
// (e.g. "http://localhost:8080"). A nil client gets a 15s timeout.
func NewSearXNG(baseURL string, client *http.Client) *SearXNG {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &SearXNG{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// Name implements Provider.
func (s *SearXNG) Name() string { return "searxng" }

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements Provider. SearXNG has no result limit parameter, so the
// response is truncated locally.
func (s *SearXNG) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if count < 1 {
		count = DefaultNumResults
	}
	params := url.Values{
		"q":      {query},
		"format": {"json"},
	}

	var sr searxngResponse
	if err := getJSON(ctx, s.httpClient, "searxng", s.baseURL+"/search?"+params.Encode(), nil, &sr); err != nil {
		return nil, err
	}

	results := make([]Result, 0, min(count, len(sr.Results)))
	for _, r := range sr.Results {
		if len(results) >= count {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	return results, nil
}

// BraveEndpoint is the Brave Search web endpoint.
const BraveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Brave queries the Brave Search API.
type Brave struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

var _ Provider = (*Brave)(nil)

// NewBrave creates a Brave provider. An empty endpoint selects
// BraveEndpoint; a nil client gets a 15s timeout.
func NewBrave(apiKey, endpoint string, client *http.Client) *Brave {
	if endpoint == "" {
		endpoint = BraveEndpoint
	}
	if client == nil {
		client = defaultHTTPClient()
	}
	return &Brave{apiKey: apiKey, endpoint: endpoint, httpClient: client}
}

// Name implements Provider.
func (b *Brave) Name() string { return "brave" }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search implements Provider.
func (b *Brave) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if count < 1 {
		count = DefaultNumResults
	}
	params := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(count)},
	}
	header := http.Header{"X-Subscription-Token": {b.apiKey}}

	var br braveResponse
	if err := getJSON(ctx, b.httpClient, "brave", b.endpoint+"?"+params.Encode(), header, &br); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		if len(results) >= count {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	return results, nil
}

func getJSON(ctx context.Context, client *http.Client, provider, reqURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", provider, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: HTTP %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}
