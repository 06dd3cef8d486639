// Package openlibrary is a minimal client for the openlibrary.org search
// API, used to pull candidate records into the catalog.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production Open Library endpoint.
const DefaultBaseURL = "https://openlibrary.org"

// searchFields limits the search response to the fields the importer uses.
const searchFields = "key,title,author_name,first_publish_year,isbn,subject,cover_i"

// Client talks to the Open Library search API. Requests are rate limited to
// one per second and retried with exponential backoff on transport errors,
// 429, and 5xx responses, per the API's fair-use guidance.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient constructs a Client for the given base URL (empty selects
// DefaultBaseURL). The userAgent identifies this application to the API.
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Doc is one search result as returned by /search.json.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	Subjects         []string `json:"subject"`
	CoverID          int      `json:"cover_i"`
}

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Search queries the catalog for books matching query and returns at most
// limit raw records.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Doc, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&fields=%s&limit=%d",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(searchFields), limit)

	var res searchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("openlibrary.Client.Search: %w", err)
	}
	return res.Docs, nil
}

// get fetches u and decodes the JSON body into target, retrying retryable
// failures up to three times with exponential backoff starting at 500ms.
func (c *Client) get(ctx context.Context, u string, target any) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return json.NewDecoder(resp.Body).Decode(target)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		default:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	})
}

// CoverURL returns the cover image URL for a search result, or "" when the
// record has no cover. Size is "S", "M", or "L".
func CoverURL(coverID int, size string) string {
	if coverID == 0 {
		return ""
	}
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-%s.jpg", coverID, size)
}
