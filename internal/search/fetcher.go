package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

// DefaultBaseURL is the Custom Search JSON API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// Item is one search result. All fields are optional in the provider response.
type Item struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Page is one page of results. Items is nil when the provider omits it.
type Page struct {
	Items []Item `json:"items"`
}

// PageFetcher fetches the page of results starting at the 1-based offset start.
type PageFetcher interface {
	FetchPage(ctx context.Context, start int) (Page, error)
}

// cseError is the error envelope returned with non-2xx responses.
type cseError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CSEFetcher fetches pages from the Custom Search JSON API.
type CSEFetcher struct {
	baseURL  string
	apiKey   string
	engineID string
	query    Query
	client   *http.Client
}

var _ PageFetcher = (*CSEFetcher)(nil)

// NewCSEFetcher creates a page fetcher for query. An empty baseURL uses DefaultBaseURL.
func NewCSEFetcher(baseURL, apiKey, engineID string, query Query, client *http.Client) *CSEFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CSEFetcher{
		baseURL:  baseURL,
		apiKey:   apiKey,
		engineID: engineID,
		query:    query,
		client:   client,
	}
}

// FetchPage issues one search request. Non-2xx responses return a
// *model.HTTPError, undecodable bodies an error wrapping model.ErrParse, and
// transport failures an error wrapping model.ErrFetch.
func (f *CSEFetcher) FetchPage(ctx context.Context, start int) (Page, error) {
	u := f.baseURL + "?" + f.query.params(f.apiKey, f.engineID, start).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Page{}, fmt.Errorf("search page at %d: %w", start, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("%w: search page at %d: %w", model.ErrFetch, start, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("search page at %d: %s", start, errorMessage(resp.Body)),
		}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return Page{}, fmt.Errorf("%w: search page at %d: %v", model.ErrParse, start, err)
	}
	return page, nil
}

// errorMessage extracts the provider's error message, falling back to a
// generic description.
func errorMessage(body io.Reader) string {
	var e cseError
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return "unexpected status"
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
