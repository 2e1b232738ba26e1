package notion

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"stravanotion/internal/xslog"
)

// Schema is the set of property names a database accepts. A nil Schema means
// the schema could not be loaded (or came back empty) and filtering is
// disabled: writes go through unfiltered and Notion itself validates.
type Schema map[string]struct{}

func (s Schema) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s[name]
	return ok
}

// RetrieveSchema fetches the database definition and returns its property
// name set.
func (c *Client) RetrieveSchema(ctx context.Context, databaseID string) (Schema, error) {
	var resp struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	if err := c.do(ctx, http.MethodGet, "/databases/"+databaseID, nil, &resp); err != nil {
		return nil, err
	}

	schema := make(Schema, len(resp.Properties))
	for name := range resp.Properties {
		schema[name] = struct{}{}
	}
	return schema, nil
}

// SchemaCache lazily loads one schema per target database and holds it for
// the lifetime of the run. Entries are never invalidated mid-run.
type SchemaCache struct {
	client *Client
	logger *slog.Logger
	mu     sync.Mutex
	loaded map[string]Schema
}

func NewSchemaCache(client *Client) *SchemaCache {
	return &SchemaCache{
		client: client,
		logger: client.logger,
		loaded: make(map[string]Schema),
	}
}

// Get returns the cached schema for the database, fetching on first use.
// Failures degrade to a nil Schema (filtering disabled) rather than erroring:
// a missing schema must never block writes.
func (c *SchemaCache) Get(ctx context.Context, databaseID string) Schema {
	c.mu.Lock()
	defer c.mu.Unlock()

	if schema, ok := c.loaded[databaseID]; ok {
		return schema
	}

	schema, err := c.client.RetrieveSchema(ctx, databaseID)
	switch {
	case err != nil:
		c.logger.Warn("could not load database schema; writes will not be filtered",
			xslog.Database(databaseID),
			xslog.Error(err),
		)
		schema = nil
	case len(schema) == 0:
		// Zero properties would silently drop every write. Treat it as a
		// soft failure and let Notion validate instead.
		c.logger.Warn("database schema has no properties; filtering disabled",
			xslog.Database(databaseID),
		)
		schema = nil
	default:
		c.logger.Info("loaded database schema",
			xslog.Database(databaseID),
			xslog.Count(len(schema)),
		)
	}

	c.loaded[databaseID] = schema
	return schema
}

// FilterProperties splits candidate properties into the subset the target
// schema accepts and the names it rejects. It never errors: unknown fields
// are dropped, not fatal. A nil schema passes everything through.
func FilterProperties(properties map[string]Property, schema Schema) (map[string]Property, []string) {
	if schema == nil {
		return properties, nil
	}

	accepted := make(map[string]Property, len(properties))
	var dropped []string
	for name, value := range properties {
		if schema.Has(name) {
			accepted[name] = value
		} else {
			dropped = append(dropped, name)
		}
	}
	sort.Strings(dropped)
	return accepted, dropped
}
