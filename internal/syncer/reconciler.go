package syncer

import (
	"context"
	"log/slog"
	"time"

	"stravanotion/internal/apperr"
	"stravanotion/internal/client/notion"
	"stravanotion/internal/xslog"
)

// index caches activity-ID → page-ID resolutions for the run. Confirmed
// absences are cached too, so the "is this row new" question is answered at
// most once per activity no matter how many stages ask it.
type index struct {
	pages  map[string]string
	absent map[string]struct{}
}

func newIndex() *index {
	return &index{
		pages:  make(map[string]string),
		absent: make(map[string]struct{}),
	}
}

func (ix *index) lookup(activityID string) (pageID string, known bool) {
	if id, ok := ix.pages[activityID]; ok {
		return id, true
	}
	if _, ok := ix.absent[activityID]; ok {
		return "", true
	}
	return "", false
}

func (ix *index) put(activityID, pageID string) {
	if pageID == "" {
		ix.absent[activityID] = struct{}{}
		return
	}
	ix.pages[activityID] = pageID
	delete(ix.absent, activityID)
}

// Record is one mapped workout ready to be written.
type Record struct {
	ActivityID string
	Name       string
	Properties map[string]notion.Property
}

// Counts summarizes one reconciliation pass.
type Counts struct {
	Fetched int
	Created int
	Updated int
	Failed  int
}

// Reconciler upserts workout records into one database, keyed by the
// external activity ID.
type Reconciler struct {
	store      Store
	databaseID string
	logger     *slog.Logger
	writeDelay time.Duration
	index      *index
}

type ReconcilerOption func(*Reconciler)

func WithReconcilerLogger(logger *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.logger = logger }
}

// WithWriteDelay sets the pause after each store write. Zero disables
// pacing.
func WithWriteDelay(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) { r.writeDelay = d }
}

func NewReconciler(store Store, databaseID string, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:      store,
		databaseID: databaseID,
		logger:     slog.Default(),
		writeDelay: 100 * time.Millisecond,
		index:      newIndex(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadIndex batch-queries rows dated on or after the given date and caches
// their activity-ID → page-ID pairs. Failure is soft: the per-record
// fallback lookup covers whatever the batch missed.
func (r *Reconciler) LoadIndex(ctx context.Context, onOrAfter string) {
	pages, err := r.store.Query(ctx, r.databaseID, &notion.Filter{
		Property: propDate,
		Date:     &notion.DateFilter{OnOrAfter: onOrAfter},
	})
	if err != nil {
		r.logger.Warn("batch index query failed; falling back to per-record lookup",
			xslog.Database(r.databaseID),
			xslog.Error(err),
		)
		return
	}

	for _, page := range pages {
		if id := page.Properties[propActivityID].PlainText(); id != "" {
			r.index.put(id, page.ID)
		}
	}
	r.logger.Info("indexed existing workout rows", xslog.Count(len(r.index.pages)))
}

// ResolvePage returns the page ID holding the given activity, or empty when
// no row exists yet. Resolutions are cached either way.
func (r *Reconciler) ResolvePage(ctx context.Context, activityID string) (string, error) {
	if pageID, known := r.index.lookup(activityID); known {
		return pageID, nil
	}

	pageID, err := r.store.Find(ctx, r.databaseID, notion.Filter{
		Property: propActivityID,
		RichText: &notion.TextFilter{Equals: activityID},
	})
	if err != nil {
		return "", err
	}

	r.index.put(activityID, pageID)
	return pageID, nil
}

// Reconcile writes every record, creating or updating by activity ID.
// Individual failures are counted and logged, never propagated mid-pass;
// only after every record has been attempted does the failure fraction get
// compared against the threshold.
func (r *Reconciler) Reconcile(ctx context.Context, records []Record, threshold float64) (Counts, error) {
	counts := Counts{Fetched: len(records)}
	schema := r.store.Schema(ctx, r.databaseID)

	for _, rec := range records {
		if err := r.upsert(ctx, schema, rec, &counts); err != nil {
			counts.Failed++
			r.logger.Error("workout upsert failed",
				xslog.ActivityID(rec.ActivityID),
				xslog.Error(err),
			)
		}

		if r.writeDelay > 0 {
			select {
			case <-ctx.Done():
				return counts, ctx.Err()
			case <-time.After(r.writeDelay):
			}
		}
	}

	if counts.Fetched > 0 {
		rate := float64(counts.Failed) / float64(counts.Fetched)
		if rate > threshold {
			return counts, apperr.ThresholdExceeded(counts.Failed, counts.Fetched, threshold)
		}
	}
	return counts, nil
}

func (r *Reconciler) upsert(ctx context.Context, schema notion.Schema, rec Record, counts *Counts) error {
	pageID, err := r.ResolvePage(ctx, rec.ActivityID)
	if err != nil {
		return apperr.Record("resolve_page", "resolving existing row", err)
	}

	props := rec.Properties
	if schema.Has(propSyncStatus) {
		status := "created"
		if pageID != "" {
			status = "updated"
		}
		props[propSyncStatus] = notion.Select(status)
	}

	props, dropped := notion.FilterProperties(props, schema)
	if len(dropped) > 0 {
		r.logger.Debug("dropped properties missing from target schema",
			xslog.ActivityID(rec.ActivityID),
			xslog.Dropped(dropped),
		)
	}
	if schema == nil {
		// With filtering disabled a missing optional column would fail the
		// whole write; the load column is the one most often absent.
		delete(props, propLoadPts)
	}

	if pageID != "" {
		if err := r.store.Update(ctx, pageID, props); err != nil {
			return apperr.Record("update_page", "updating row", err)
		}
		counts.Updated++
		r.logger.Debug("updated workout", xslog.ActivityID(rec.ActivityID))
		return nil
	}

	newID, err := r.store.Create(ctx, r.databaseID, props)
	if err != nil {
		return apperr.Record("create_page", "creating row", err)
	}
	r.index.put(rec.ActivityID, newID)
	counts.Created++
	r.logger.Info("created workout",
		xslog.ActivityID(rec.ActivityID),
		slog.String("name", rec.Name),
	)
	return nil
}
