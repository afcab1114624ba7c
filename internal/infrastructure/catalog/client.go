package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/treasurehunter/watcher/internal/domain"
)

// ClientConfig holds catalog client configuration
type ClientConfig struct {
	BaseURL           string
	SearchPath        string // appended to BaseURL, followed by the escaped query
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables pacing
	MaxResults        int     // 0 keeps every listing on the page
}

// Client searches the catalog and extracts listings from the results page
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	searchPath  string
	userAgent   string
	maxResults  int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new catalog client
func NewClient(config ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid catalog base URL %q", config.BaseURL)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     base,
		searchPath:  config.SearchPath,
		userAgent:   config.UserAgent,
		maxResults:  config.MaxResults,
		rateLimiter: rate.NewLimiter(limit, 1),
	}, nil
}

// SetDebug enables or disables per-request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SearchURL builds the results-page URL for query
func (c *Client) SearchURL(query string) string {
	return c.baseURL.String() + c.searchPath + url.QueryEscape(query)
}

// Search fetches the results page for query and returns its listings in page order.
// Network errors, timeouts and non-2xx responses are returned wrapped in domain.ErrFetchFailed.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Listing, error) {
	reqURL := c.SearchURL(query)
	if c.debug {
		log.Printf("[CATALOG] GET %s", reqURL)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrFetchFailed, err)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	listings, err := ParseListings(resp.Body, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	if c.maxResults > 0 && len(listings) > c.maxResults {
		listings = listings[:c.maxResults]
	}

	if c.debug {
		log.Printf("[CATALOG] Found %d listings for query: %q", len(listings), query)
	}
	return listings, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	return resp, nil
}
