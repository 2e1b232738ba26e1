package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stravanotion/internal/client/notion"
)

// fakeStore is an in-memory Store with merge-on-update semantics matching
// the real target: an update only touches the properties it names.
type fakeStore struct {
	schemas map[string]notion.Schema

	pages map[string]map[string]notion.Property
	dbOf  map[string]string
	order []string

	nextID    int
	createErr error
	updateErr error
	findErr   error
	queryErr  error

	creates int
	updates int
	finds   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schemas: make(map[string]notion.Schema),
		pages:   make(map[string]map[string]notion.Property),
		dbOf:    make(map[string]string),
	}
}

func (s *fakeStore) seed(databaseID string, props map[string]notion.Property) string {
	s.nextID++
	id := fmt.Sprintf("page-%d", s.nextID)
	s.pages[id] = props
	s.dbOf[id] = databaseID
	s.order = append(s.order, id)
	return id
}

func (s *fakeStore) Schema(_ context.Context, databaseID string) notion.Schema {
	return s.schemas[databaseID]
}

func (s *fakeStore) Query(_ context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []notion.Page
	for _, id := range s.order {
		if s.dbOf[id] != databaseID {
			continue
		}
		if filter == nil || s.matches(id, *filter) {
			out = append(out, notion.Page{ID: id, Properties: s.pages[id]})
		}
	}
	return out, nil
}

func (s *fakeStore) Find(_ context.Context, databaseID string, filter notion.Filter) (string, error) {
	s.finds++
	if s.findErr != nil {
		return "", s.findErr
	}
	for _, id := range s.order {
		if s.dbOf[id] == databaseID && s.matches(id, filter) {
			return id, nil
		}
	}
	return "", nil
}

func (s *fakeStore) matches(pageID string, filter notion.Filter) bool {
	prop, ok := s.pages[pageID][filter.Property]
	if !ok {
		return false
	}
	switch {
	case filter.RichText != nil:
		return prop.PlainText() == filter.RichText.Equals
	case filter.Title != nil:
		return prop.PlainText() == filter.Title.Equals
	case filter.Date != nil && filter.Date.Equals != "":
		return strings.HasPrefix(prop.DateStart(), filter.Date.Equals)
	case filter.Date != nil && filter.Date.OnOrAfter != "":
		start := prop.DateStart()
		if len(start) < 10 {
			return false
		}
		return start[:10] >= filter.Date.OnOrAfter
	}
	return false
}

func (s *fakeStore) Create(_ context.Context, databaseID string, properties map[string]notion.Property) (string, error) {
	s.creates++
	if s.createErr != nil {
		return "", s.createErr
	}
	props := make(map[string]notion.Property, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	return s.seed(databaseID, props), nil
}

func (s *fakeStore) Update(_ context.Context, pageID string, properties map[string]notion.Property) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	page, ok := s.pages[pageID]
	if !ok {
		return errors.New("no such page: " + pageID)
	}
	for k, v := range properties {
		page[k] = v
	}
	return nil
}
