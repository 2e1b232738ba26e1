package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"stravanotion/internal/apperr"
	"stravanotion/internal/client/strava"
	"stravanotion/internal/client/weather"
	"stravanotion/internal/metrics"
	"stravanotion/internal/units"
	"stravanotion/internal/xslog"
)

// WeatherSource looks up historical conditions for a coordinate and time.
type WeatherSource interface {
	Get(ctx context.Context, lat, lng float64, start time.Time) (*weather.Observation, error)
}

// Config scopes one sync run. Daily Summary and Athlete Metrics targets are
// optional; an empty database ID disables that stage.
type Config struct {
	WorkoutsDatabaseID string
	DailyDatabaseID    string
	AthleteDatabaseID  string
	AthleteName        string
	Days               int
	FailureThreshold   float64
	WriteDelay         time.Duration
}

// Report is the run outcome handed to the statistics sink.
type Report struct {
	StartedAt       time.Time
	Workouts        Counts
	DailyEnabled    bool
	DailyDays       int
	DailyFailed     int
	AthleteEnabled  bool
	AthleteUpserted bool
	Warnings        []string
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Service runs the full pipeline: fetch, enrich, map, reconcile, aggregate.
type Service struct {
	strava  *strava.Client
	weather WeatherSource
	store   Store
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the run's notion of now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(stravaClient *strava.Client, weatherSource WeatherSource, store Store, cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		strava:  stravaClient,
		weather: weatherSource,
		store:   store,
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one sync pass. Activities are processed strictly in order,
// one at a time. The returned report is non-nil whenever any records were
// attempted, even when err is non-nil.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	now := s.now().UTC()
	after := now.AddDate(0, 0, -s.cfg.Days)
	report := &Report{StartedAt: now}

	activities, err := s.strava.Activity.ListAll(ctx, after)
	if err != nil {
		return nil, apperr.Precondition("fetch_activities", "fetching activities", err)
	}
	s.logger.Info("fetched activities", xslog.Count(len(activities)))
	if len(activities) == 0 {
		s.logger.Info("nothing to sync")
		return report, nil
	}

	zones := s.loadZones(ctx, report)

	reconciler := NewReconciler(s.store, s.cfg.WorkoutsDatabaseID,
		WithReconcilerLogger(s.logger),
		WithWriteDelay(s.cfg.WriteDelay),
	)
	reconciler.LoadIndex(ctx, after.Format("2006-01-02"))

	records := make([]Record, 0, len(activities))
	sessions := make([]metrics.SessionMetrics, 0, len(activities))
	for i := range activities {
		a := &activities[i]
		enr := s.enrich(ctx, a, zones, reconciler)

		records = append(records, Record{
			ActivityID: strconv.FormatInt(a.ID, 10),
			Name:       a.Name,
			Properties: MapWorkout(a, enr, now),
		})
		sessions = append(sessions, metrics.SessionMetrics{
			Date:          a.LocalDate(),
			Sport:         a.Type,
			DurationMin:   units.Minutes(a.ElapsedTime),
			MovingMin:     units.Minutes(a.MovingTime),
			DistanceMiles: units.Miles(a.Distance),
			ElevationFeet: units.Feet(a.TotalElevationGain),
			Load:          enr.Load,
		})
	}

	counts, err := reconciler.Reconcile(ctx, records, s.cfg.FailureThreshold)
	report.Workouts = counts
	s.logger.Info("reconciliation finished",
		slog.Int("fetched", counts.Fetched),
		slog.Int("created", counts.Created),
		slog.Int("updated", counts.Updated),
		slog.Int("failed", counts.Failed),
	)
	if err != nil {
		return report, err
	}

	s.runAggregates(ctx, sessions, now, report)
	return report, nil
}

// loadZones fetches the athlete's HR zone boundaries. Absence or failure
// skips zone minutes and load for the run, nothing more.
func (s *Service) loadZones(ctx context.Context, report *Report) []metrics.ZoneBoundary {
	ranges, err := s.strava.Athlete.Zones(ctx)
	if err != nil {
		msg := "heart-rate zones unavailable; zone minutes and load skipped"
		s.logger.Warn(msg, xslog.Error(err))
		report.warn(msg)
		return nil
	}
	if len(ranges) == 0 {
		s.logger.Info("no heart-rate zones configured; zone minutes and load skipped")
		return nil
	}

	zones := make([]metrics.ZoneBoundary, len(ranges))
	for i, zr := range ranges {
		zones[i] = metrics.ZoneBoundary{Min: float64(zr.Min), Max: float64(zr.Max)}
	}
	s.logger.Info("loaded heart-rate zones", xslog.Count(len(zones)))
	return zones
}

// enrich computes the derived metrics for one activity and, for rows that
// do not exist yet, the create-only context (photo, weather).
func (s *Service) enrich(ctx context.Context, a *strava.Activity, zones []metrics.ZoneBoundary, reconciler *Reconciler) *Enrichment {
	enr := &Enrichment{
		Quality: metrics.QualityNone,
		Load:    metrics.Load{State: metrics.LoadPending},
	}
	activityID := strconv.FormatInt(a.ID, 10)
	eligible := metrics.DriftEligible(a.Type, a.MovingTime, units.Miles(a.Distance), a.HasHeartrate)

	if a.HasHeartrate && (len(zones) > 0 || eligible) {
		streams, err := s.strava.Stream.Get(ctx, a.ID)
		if err != nil {
			s.logger.Warn("stream fetch failed; HR metrics skipped",
				xslog.ActivityID(activityID),
				xslog.Error(err),
			)
		} else if streams.HasHeartrate() {
			samples := samplesFrom(streams)
			enr.Quality = metrics.ClassifyHRQuality(samples, a.MovingTime)

			if len(zones) > 0 {
				enr.ZoneMinutes = metrics.ZoneMinutes(samples, zones)
				if enr.ZoneMinutes != nil {
					enr.Load = metrics.ZoneWeightedLoad(enr.ZoneMinutes, a.Type, enr.Quality)
				}
			}

			if eligible && enr.Quality == metrics.QualityGood {
				if drift := metrics.AnalyzeDrift(samples); drift != nil {
					enr.Drift = drift
					enr.DriftEligible = true
				} else {
					s.logger.Debug("drift not computed: unstable stream",
						xslog.ActivityID(activityID),
					)
				}
			}
		}
	}

	pageID, err := reconciler.ResolvePage(ctx, activityID)
	if err != nil {
		s.logger.Warn("existing-row lookup failed; skipping create-only context",
			xslog.ActivityID(activityID),
			xslog.Error(err),
		)
		return enr
	}
	if pageID != "" {
		return enr
	}

	if detail, err := s.strava.Activity.Get(ctx, a.ID); err != nil {
		s.logger.Warn("photo lookup failed", xslog.ActivityID(activityID), xslog.Error(err))
	} else {
		enr.PhotoURL = detail.PrimaryPhotoURL()
	}

	if s.weather != nil && !metrics.IsIndoor(a.Type) {
		if lat, lng, ok := a.StartCoordinate(); ok {
			obs, err := s.weather.Get(ctx, lat, lng, a.StartDate)
			switch {
			case err != nil:
				s.logger.Warn("weather lookup failed", xslog.ActivityID(activityID), xslog.Error(err))
			case obs != nil:
				enr.Weather = obs
			}
		}
	}

	return enr
}

// runAggregates drives the optional Daily Summary and Athlete Metrics
// stages. Each is isolated: a failure warns and moves on.
func (s *Service) runAggregates(ctx context.Context, sessions []metrics.SessionMetrics, now time.Time, report *Report) {
	if s.cfg.DailyDatabaseID == "" && s.cfg.AthleteDatabaseID == "" {
		return
	}
	buckets := metrics.AggregateDaily(sessions)

	if s.cfg.DailyDatabaseID != "" {
		report.DailyEnabled = true
		report.DailyDays = len(buckets)
		report.DailyFailed = NewDailyUpserter(s.store, s.cfg.DailyDatabaseID, s.logger).Upsert(ctx, buckets)
		s.logger.Info("daily summaries upserted",
			xslog.Count(len(buckets)),
			slog.Int("failed", report.DailyFailed),
		)
		if report.DailyFailed > 0 {
			report.warn(fmt.Sprintf("%d daily summary rows failed", report.DailyFailed))
		}
	}

	if s.cfg.AthleteDatabaseID != "" {
		report.AthleteEnabled = true
		dailyLoad := make(map[string]float64, len(buckets))
		if s.cfg.DailyDatabaseID != "" {
			// Days outside this run's window keep their stored loads.
			start28 := now.AddDate(0, 0, -27).Format("2006-01-02")
			for date, load := range PersistedDailyLoads(ctx, s.store, s.cfg.DailyDatabaseID, start28, s.logger) {
				dailyLoad[date] = load
			}
		}
		for _, b := range buckets {
			dailyLoad[b.Date] = b.Load
		}
		rolling := metrics.ComputeRolling(dailyLoad, now)

		err := UpsertAthleteMetrics(ctx, s.store, s.cfg.AthleteDatabaseID, s.cfg.AthleteName, rolling, now)
		if err != nil {
			msg := "athlete metrics upsert failed"
			s.logger.Warn(msg, xslog.Error(err))
			report.warn(msg)
		} else {
			report.AthleteUpserted = true
			s.logger.Info("athlete metrics upserted",
				slog.Float64("load_7d", rolling.Load7d),
				slog.Float64("load_28d", rolling.Load28d),
			)
		}
	}
}

func samplesFrom(streams *strava.Streams) *metrics.Samples {
	samples := &metrics.Samples{}
	if streams.Time != nil {
		samples.Time = streams.Time.Data
	}
	if streams.Heartrate != nil {
		samples.HR = streams.Heartrate.Data
	}
	if streams.VelocitySmooth != nil {
		samples.Vel = streams.VelocitySmooth.Data
	}
	return samples
}
