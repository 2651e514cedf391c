package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobwatch/internal/canon"
	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/ratelimit"
)

// Client walks the result pages of one query and merges them into a single
// deduplicated list of postings.
type Client struct {
	pages  PageFetcher
	query  Query
	pacer  *ratelimit.Pacer
	logger *slog.Logger
}

var _ model.PostingFetcher = (*Client)(nil)

// NewClient creates a client. pacer spaces consecutive page requests.
func NewClient(pages PageFetcher, query Query, pacer *ratelimit.Pacer, logger *slog.Logger) *Client {
	return &Client{
		pages:  pages,
		query:  query,
		pacer:  pacer,
		logger: logger,
	}
}

// FetchAll fetches up to MaxPages pages in ascending order and returns the
// postings in the order first encountered, deduplicated by canonical id.
//
// Pagination stops early, keeping what was collected, when a page is empty,
// when the provider answers with a non-2xx status, or when a response cannot
// be decoded. Transport failures abort the fetch with an error.
func (c *Client) FetchAll(ctx context.Context) ([]model.Posting, error) {
	var postings []model.Posting
	seen := make(map[string]bool)

	for page := 0; page < c.query.MaxPages; page++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrFetch, err)
		}

		start := c.query.Start(page)
		result, err := c.pages.FetchPage(ctx, start)
		c.pacer.Done()
		if err != nil {
			var httpErr *model.HTTPError
			switch {
			case errors.As(err, &httpErr):
				c.logger.Warn("search returned non-success status, stopping pagination",
					"page", page+1,
					"start", start,
					"status", httpErr.StatusCode,
					"error", err,
				)
			case errors.Is(err, model.ErrParse):
				c.logger.Warn("search response unreadable, stopping pagination",
					"page", page+1,
					"start", start,
					"error", err,
				)
			default:
				return nil, err
			}
			break
		}

		if len(result.Items) == 0 {
			c.logger.Debug("empty search page, stopping pagination", "page", page+1, "start", start)
			break
		}

		added := 0
		for _, item := range result.Items {
			if item.Link == "" {
				continue
			}
			id := canon.Normalize(item.Link)
			if seen[id] {
				continue
			}
			seen[id] = true
			postings = append(postings, model.Posting{
				RawLink: item.Link,
				ID:      id,
				Title:   cleanText(item.Title),
				Snippet: cleanText(item.Snippet),
			})
			added++
		}

		c.logger.Debug("fetched search page",
			"page", page+1,
			"start", start,
			"items", len(result.Items),
			"added", added,
		)
	}

	return postings, nil
}
