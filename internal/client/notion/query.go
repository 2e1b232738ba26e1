package notion

import (
	"context"
	"net/http"
)

// Filter is the subset of Notion's query filter language this system uses:
// single-property equality and on-or-after comparisons.
type Filter struct {
	Property string      `json:"property"`
	Date     *DateFilter `json:"date,omitempty"`
	RichText *TextFilter `json:"rich_text,omitempty"`
	Title    *TextFilter `json:"title,omitempty"`
}

type DateFilter struct {
	Equals    string `json:"equals,omitempty"`
	OnOrAfter string `json:"on_or_after,omitempty"`
}

type TextFilter struct {
	Equals string `json:"equals,omitempty"`
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor *string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// QueryDatabase returns every page matching the filter, following cursors
// until the result set is exhausted.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter *Filter) ([]Page, error) {
	path := "/databases/" + databaseID + "/query"

	var (
		pages  []Page
		cursor *string
	)
	for {
		var resp queryResponse
		req := queryRequest{Filter: filter, StartCursor: cursor}
		if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// FindPage returns the ID of the first page matching the filter, or empty
// when none matches.
func (c *Client) FindPage(ctx context.Context, databaseID string, filter Filter) (string, error) {
	path := "/databases/" + databaseID + "/query"

	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, path, queryRequest{Filter: &filter}, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].ID, nil
}
