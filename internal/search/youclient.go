package search

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

	"github.com/ppiankov/debateshield/internal/model"
	"golang.org/x/time/rate"
)

// YouClient implements the Searcher interface for the You.com search API
type YouClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// You.com API response (only the fields we read; everything else is dropped
// at this boundary)
type youResponse struct {
	Results struct {
		Web []youWebResult `json:"web"`
	} `json:"results"`
}

type youWebResult struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Snippets    []string `json:"snippets"`
}

// NewYouClient creates a You.com search client.
func NewYouClient(cfg model.SearchConfig) *YouClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://ydc-index.io/v1/search"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}

	return &YouClient{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Name returns the provider name
func (c *YouClient) Name() string {
	return "you"
}

// Configured reports whether an API key is present.
func (c *YouClient) Configured() bool {
	return c.apiKey != ""
}

// Search runs one query against the You.com index and maps results to the
// title/url/snippet triple.
func (c *YouClient) Search(ctx context.Context, query string, count int) ([]model.EvidenceItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("search API key is missing")
	}
	if count <= 0 {
		count = 5
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed youResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	items := make([]model.EvidenceItem, 0, count)
	for i, result := range parsed.Results.Web {
		if i >= count {
			break
		}
		snippet := result.Description
		if len(result.Snippets) > 0 {
			snippet = result.Snippets[0]
		}
		items = append(items, model.EvidenceItem{
			Title:   strings.TrimSpace(result.Title),
			URL:     strings.TrimSpace(result.URL),
			Snippet: strings.TrimSpace(snippet),
		})
	}
	return items, nil
}
