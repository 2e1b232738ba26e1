package syncer

import (
	"context"
	"testing"
	"time"

	"stravanotion/internal/client/notion"
	"stravanotion/internal/client/strava"
	"stravanotion/internal/client/weather"
)

type fakeActivities struct {
	activities []strava.Activity
	detailHits int
	photoURL   string
}

func (f *fakeActivities) List(_ context.Context, _ *strava.ListParams) ([]strava.Activity, error) {
	return f.activities, nil
}

func (f *fakeActivities) ListAll(_ context.Context, _ time.Time) ([]strava.Activity, error) {
	return f.activities, nil
}

func (f *fakeActivities) Get(_ context.Context, id int64) (*strava.ActivityDetail, error) {
	f.detailHits++
	d := &strava.ActivityDetail{ID: id}
	if f.photoURL != "" {
		d.Photos.Primary = &struct {
			URLs map[string]string `json:"urls"`
		}{URLs: map[string]string{"600": f.photoURL}}
	}
	return d, nil
}

type fakeAthlete struct {
	zones []strava.ZoneRange
}

func (f *fakeAthlete) Zones(_ context.Context) ([]strava.ZoneRange, error) {
	return f.zones, nil
}

type fakeStreams struct {
	streams map[int64]*strava.Streams
	hits    int
}

func (f *fakeStreams) Get(_ context.Context, id int64) (*strava.Streams, error) {
	f.hits++
	return f.streams[id], nil
}

type fakeWeather struct {
	obs  *weather.Observation
	hits int
}

func (f *fakeWeather) Get(_ context.Context, _, _ float64, _ time.Time) (*weather.Observation, error) {
	f.hits++
	return f.obs, nil
}

func steadyStreams(n int, hr, vel float64) *strava.Streams {
	t := make([]float64, n)
	h := make([]float64, n)
	v := make([]float64, n)
	for i := range t {
		t[i] = float64(i)
		h[i] = hr
		v[i] = vel
	}
	return &strava.Streams{
		Time:           &strava.StreamData[float64]{Data: t},
		Heartrate:      &strava.StreamData[float64]{Data: h},
		VelocitySmooth: &strava.StreamData[float64]{Data: v},
	}
}

func TestServiceRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const (
		workoutsDB = "db-workouts"
		dailyDB    = "db-daily"
		athleteDB  = "db-athlete"
	)

	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	hr := 145.0
	newRun := strava.Activity{
		ID:               1,
		Name:             "Long Run",
		Type:             "Run",
		StartDate:        now.AddDate(0, 0, -1),
		StartDateLocal:   now.AddDate(0, 0, -1),
		ElapsedTime:      4000,
		MovingTime:       3600,
		Distance:         10000,
		AverageHeartrate: &hr,
		HasHeartrate:     true,
		StartLatLng:      []float64{40.0, -105.0},
	}
	existingLift := strava.Activity{
		ID:             2,
		Name:           "Evening Lift",
		Type:           "WeightTraining",
		StartDate:      now.AddDate(0, 0, -2),
		StartDateLocal: now.AddDate(0, 0, -2),
		ElapsedTime:    3000,
		MovingTime:     2800,
	}

	newService := func(store *fakeStore, activities *fakeActivities, streams *fakeStreams, wx *fakeWeather, cfg Config) *Service {
		client := &strava.Client{
			Activity: activities,
			Athlete: &fakeAthlete{zones: []strava.ZoneRange{
				{Min: 0, Max: 130}, {Min: 130, Max: 150}, {Min: 150, Max: 165},
				{Min: 165, Max: 180}, {Min: 180, Max: -1},
			}},
			Stream: streams,
		}
		return NewService(client, wx, store, cfg, WithClock(func() time.Time { return now }))
	}

	t.Run("full pipeline", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.seed(workoutsDB, map[string]notion.Property{
			propActivityID: notion.Text("2"),
			propDate:       notion.DateOnly("2026-08-29"),
		})

		activities := &fakeActivities{
			activities: []strava.Activity{newRun, existingLift},
			photoURL:   "https://example.com/p.jpg",
		}
		streams := &fakeStreams{streams: map[int64]*strava.Streams{
			1: steadyStreams(3600, 145, 3),
		}}
		wx := &fakeWeather{obs: &weather.Observation{TempF: 60, Conditions: "Clear"}}

		svc := newService(store, activities, streams, wx, Config{
			WorkoutsDatabaseID: workoutsDB,
			DailyDatabaseID:    dailyDB,
			AthleteDatabaseID:  athleteDB,
			AthleteName:        "Athlete",
			Days:               30,
			FailureThreshold:   0.2,
		})

		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := report.Workouts; got.Created != 1 || got.Updated != 1 || got.Failed != 0 {
			t.Errorf("workout counts = %+v, want 1 created / 1 updated", got)
		}

		// Create-only context fetched for the new run, not the existing lift.
		if activities.detailHits != 1 {
			t.Errorf("detail fetches = %d, want 1", activities.detailHits)
		}
		if wx.hits != 1 {
			t.Errorf("weather fetches = %d, want 1", wx.hits)
		}

		// The lift has no HR, so only the run's streams were pulled.
		if streams.hits != 1 {
			t.Errorf("stream fetches = %d, want 1", streams.hits)
		}

		// New row carries the derived fields.
		var runPage map[string]notion.Property
		for id, props := range store.pages {
			if store.dbOf[id] == workoutsDB && props[propActivityID].PlainText() == "1" {
				runPage = props
			}
		}
		if runPage == nil {
			t.Fatal("run row not created")
		}
		if got := runPage[propHRDataQuality].Select.Name; got != "Good" {
			t.Errorf("quality = %q, want Good", got)
		}
		// 3600 s at 145 bpm sits entirely in zone 2: 59.98 min of weighted load.
		if got, _ := runPage[propLoadPts].NumberValue(); got != 119.96 {
			t.Errorf("load = %v, want 119.96", got)
		}
		if _, ok := runPage[propHRDriftPct]; !ok {
			t.Error("drift missing from eligible run")
		}
		if got := *runPage[propPhotoURL].URL; got != "https://example.com/p.jpg" {
			t.Errorf("photo = %q", got)
		}

		// Two local dates produce two daily rows plus the athlete row.
		if !report.DailyEnabled || report.DailyDays != 2 || report.DailyFailed != 0 {
			t.Errorf("daily report = %+v", report)
		}
		if !report.AthleteUpserted {
			t.Error("athlete metrics not upserted")
		}

		var athletePage map[string]notion.Property
		for id, props := range store.pages {
			if store.dbOf[id] == athleteDB {
				athletePage = props
			}
		}
		if athletePage == nil {
			t.Fatal("athlete row not created")
		}
		if got, _ := athletePage[propAthleteLoad7d].NumberValue(); got != 119.96 {
			t.Errorf("Load 7d = %v, want 119.96", got)
		}
		if athletePage[propAthleteBalance].Number == nil {
			t.Error("Load Balance missing despite nonzero 28d load")
		}
	})

	t.Run("weather skipped for indoor sessions", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		activities := &fakeActivities{activities: []strava.Activity{existingLift}}
		wx := &fakeWeather{obs: &weather.Observation{TempF: 60}}

		svc := newService(store, activities, &fakeStreams{}, wx, Config{
			WorkoutsDatabaseID: workoutsDB,
			Days:               30,
			FailureThreshold:   0.2,
		})
		if _, err := svc.Run(ctx); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if wx.hits != 0 {
			t.Errorf("weather fetches = %d, want 0 for indoor", wx.hits)
		}
	})

	t.Run("empty window is a clean no-op", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := newService(store, &fakeActivities{}, &fakeStreams{}, nil, Config{
			WorkoutsDatabaseID: workoutsDB,
			DailyDatabaseID:    dailyDB,
			Days:               30,
			FailureThreshold:   0.2,
		})
		report, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.Workouts.Fetched != 0 || store.creates != 0 {
			t.Errorf("expected no writes, got %+v with %d creates", report.Workouts, store.creates)
		}
	})
}
