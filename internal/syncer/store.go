package syncer

import (
	"context"

	"stravanotion/internal/client/notion"
)

// Store is the slice of the target store the sync consumes. The production
// implementation wraps the Notion client; tests substitute an in-memory fake.
type Store interface {
	// Schema returns the property-name set of a database, nil when it could
	// not be loaded (filtering disabled).
	Schema(ctx context.Context, databaseID string) notion.Schema
	// Query returns every page matching the filter.
	Query(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error)
	// Find returns the ID of the first page matching the filter, empty when
	// none does.
	Find(ctx context.Context, databaseID string, filter notion.Filter) (string, error)
	// Create inserts a row and returns its page ID.
	Create(ctx context.Context, databaseID string, properties map[string]notion.Property) (string, error)
	// Update overwrites the given properties on an existing row, leaving
	// every other property alone.
	Update(ctx context.Context, pageID string, properties map[string]notion.Property) error
}

type notionStore struct {
	client  *notion.Client
	schemas *notion.SchemaCache
}

func NewNotionStore(client *notion.Client) Store {
	return &notionStore{
		client:  client,
		schemas: notion.NewSchemaCache(client),
	}
}

func (s *notionStore) Schema(ctx context.Context, databaseID string) notion.Schema {
	return s.schemas.Get(ctx, databaseID)
}

func (s *notionStore) Query(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error) {
	return s.client.QueryDatabase(ctx, databaseID, filter)
}

func (s *notionStore) Find(ctx context.Context, databaseID string, filter notion.Filter) (string, error) {
	return s.client.FindPage(ctx, databaseID, filter)
}

func (s *notionStore) Create(ctx context.Context, databaseID string, properties map[string]notion.Property) (string, error) {
	return s.client.CreatePage(ctx, databaseID, properties)
}

func (s *notionStore) Update(ctx context.Context, pageID string, properties map[string]notion.Property) error {
	return s.client.UpdatePage(ctx, pageID, properties)
}
