package syncer

import (
	"context"
	"log/slog"
	"time"

	"stravanotion/internal/client/notion"
	"stravanotion/internal/metrics"
	"stravanotion/internal/xslog"
)

// Daily Summary database property names.
const (
	propDailyDate       = "Date"
	propDailyDuration   = "Total Duration (min)"
	propDailyMoving     = "Total Moving Time (min)"
	propDailyDistance   = "Total Distance (mi)"
	propDailyElevation  = "Total Elevation (ft)"
	propDailySessions   = "Session Count"
	propDailyLoad       = "Load (pts)"
	propDailyConfidence = "Load Confidence"
)

// Athlete Metrics database property names.
const (
	propAthleteName      = "Name"
	propAthleteUpdatedAt = "Updated At"
	propAthleteLoad7d    = "Load 7d"
	propAthleteLoad28d   = "Load 28d"
	propAthleteBalance   = "Load Balance"
)

// MapDailySummary converts one aggregated day into Daily Summary properties.
// The date is the row key and is written as an all-day value.
func MapDailySummary(b metrics.DailyBucket) map[string]notion.Property {
	return map[string]notion.Property{
		propDailyDate:       notion.DateOnly(b.Date),
		propDailyDuration:   notion.Number(b.DurationMin),
		propDailyMoving:     notion.Number(b.MovingMin),
		propDailyDistance:   notion.Number(b.DistanceMiles),
		propDailyElevation:  notion.Number(b.ElevationFeet),
		propDailySessions:   notion.Number(float64(b.Sessions)),
		propDailyLoad:       notion.Number(b.Load),
		propDailyConfidence: notion.Select(string(b.Confidence)),
	}
}

// MapAthleteMetrics converts rolling loads into Athlete Metrics properties.
// Zero-valued window sums are left absent rather than written as zero, and
// the balance only exists when the 28-day base does.
func MapAthleteMetrics(name string, rolling metrics.RollingLoad, now time.Time) map[string]notion.Property {
	props := map[string]notion.Property{
		propAthleteName:      notion.Title(name),
		propAthleteUpdatedAt: notion.Date(now),
	}
	if rolling.Load7d > 0 {
		props[propAthleteLoad7d] = notion.Number(rolling.Load7d)
	}
	if rolling.Load28d > 0 {
		props[propAthleteLoad28d] = notion.Number(rolling.Load28d)
	}
	if rolling.Balance != nil {
		props[propAthleteBalance] = notion.Number(*rolling.Balance)
	}
	return props
}

// DailyUpserter writes Daily Summary rows keyed by date.
type DailyUpserter struct {
	store      Store
	databaseID string
	logger     *slog.Logger
}

func NewDailyUpserter(store Store, databaseID string, logger *slog.Logger) *DailyUpserter {
	return &DailyUpserter{store: store, databaseID: databaseID, logger: logger}
}

// Upsert writes every bucket, one row per date. Failures are per-day and
// soft; the return value is how many days failed.
func (u *DailyUpserter) Upsert(ctx context.Context, buckets []metrics.DailyBucket) (failed int) {
	schema := u.store.Schema(ctx, u.databaseID)

	for _, b := range buckets {
		props, _ := notion.FilterProperties(MapDailySummary(b), schema)

		err := upsertKeyed(ctx, u.store, u.databaseID, notion.Filter{
			Property: propDailyDate,
			Date:     &notion.DateFilter{Equals: b.Date},
		}, props)
		if err != nil {
			failed++
			u.logger.Warn("daily summary upsert failed",
				xslog.Date(b.Date),
				xslog.Error(err),
			)
		}
	}
	return failed
}

// UpsertAthleteMetrics writes the single athlete row, keyed by name.
func UpsertAthleteMetrics(ctx context.Context, store Store, databaseID, name string, rolling metrics.RollingLoad, now time.Time) error {
	schema := store.Schema(ctx, databaseID)
	props, _ := notion.FilterProperties(MapAthleteMetrics(name, rolling, now), schema)

	return upsertKeyed(ctx, store, databaseID, notion.Filter{
		Property: propAthleteName,
		Title:    &notion.TextFilter{Equals: name},
	}, props)
}

// PersistedDailyLoads reads previously stored daily rows dated on or after
// the given date, so a short sync window still yields full rolling sums.
// Failure is soft: rolling loads fall back to this run's buckets alone.
func PersistedDailyLoads(ctx context.Context, store Store, databaseID, onOrAfter string, logger *slog.Logger) map[string]float64 {
	pages, err := store.Query(ctx, databaseID, &notion.Filter{
		Property: propDailyDate,
		Date:     &notion.DateFilter{OnOrAfter: onOrAfter},
	})
	if err != nil {
		logger.Warn("persisted daily rows unavailable; rolling loads use this run only",
			xslog.Database(databaseID),
			xslog.Error(err),
		)
		return nil
	}

	loads := make(map[string]float64, len(pages))
	for _, page := range pages {
		date := page.Properties[propDailyDate].DateStart()
		if len(date) < 10 {
			continue
		}
		if load, ok := page.Properties[propDailyLoad].NumberValue(); ok {
			loads[date[:10]] = load
		}
	}
	return loads
}

// upsertKeyed finds the row matching the filter and updates it, or creates
// it when absent.
func upsertKeyed(ctx context.Context, store Store, databaseID string, filter notion.Filter, props map[string]notion.Property) error {
	pageID, err := store.Find(ctx, databaseID, filter)
	if err != nil {
		return err
	}
	if pageID != "" {
		return store.Update(ctx, pageID, props)
	}
	_, err = store.Create(ctx, databaseID, props)
	return err
}
