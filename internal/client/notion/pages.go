package notion

import (
	"context"
	"net/http"
)

type createPageRequest struct {
	Parent     pageParent          `json:"parent"`
	Properties map[string]Property `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type updatePageRequest struct {
	Properties map[string]Property `json:"properties"`
}

// CreatePage inserts a new row and returns its store-assigned page ID.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property) (string, error) {
	req := createPageRequest{
		Parent:     pageParent{DatabaseID: databaseID},
		Properties: properties,
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", req, &page); err != nil {
		return "", err
	}
	return page.ID, nil
}

// UpdatePage overwrites the given properties on an existing row. Properties
// not named in the request are left untouched, which is what keeps
// user-owned fields safe.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) error {
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, updatePageRequest{Properties: properties}, nil)
}
