package syncer

import (
	"testing"
	"time"

	"stravanotion/internal/client/strava"
	"stravanotion/internal/client/weather"
	"stravanotion/internal/metrics"
)

func ptr(v float64) *float64 { return &v }

func testActivity() *strava.Activity {
	return &strava.Activity{
		ID:                 123456789,
		Name:               "Morning Run",
		Type:               "Run",
		StartDate:          time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC),
		StartDateLocal:     time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
		ElapsedTime:        3700,
		MovingTime:         3600,
		Distance:           10000,
		TotalElevationGain: 120,
		AverageHeartrate:   ptr(145.2),
		MaxHeartrate:       ptr(172),
		HasHeartrate:       true,
		StartLatLng:        []float64{40.0, -105.0},
	}
}

func TestMapWorkout(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("core fields", func(t *testing.T) {
		t.Parallel()
		props := MapWorkout(testActivity(), nil, now)

		if got := props[propName].PlainText(); got != "Morning Run" {
			t.Errorf("Name = %q, want Morning Run", got)
		}
		if got := props[propActivityID].PlainText(); got != "123456789" {
			t.Errorf("Activity ID = %q, want 123456789", got)
		}
		if got := *props[propStravaURL].URL; got != "https://www.strava.com/activities/123456789" {
			t.Errorf("Strava URL = %q", got)
		}
		if got, _ := props[propDurationMin].NumberValue(); got != 61.67 {
			t.Errorf("Duration = %v, want 61.67", got)
		}
		if got, _ := props[propDistanceMi].NumberValue(); got != 6.21 {
			t.Errorf("Distance = %v, want 6.21", got)
		}
		if got, _ := props[propElevationFt].NumberValue(); got != 393.7 {
			t.Errorf("Elevation = %v, want 393.7", got)
		}
		if got, _ := props[propAvgPace].NumberValue(); got != 9.66 {
			t.Errorf("Pace = %v, want 9.66", got)
		}
		if got := props[propLastSynced].DateStart(); got == "" {
			t.Error("Last Synced missing")
		}
	})

	t.Run("fallback name for blank activities", func(t *testing.T) {
		t.Parallel()
		a := testActivity()
		a.Name = ""
		props := MapWorkout(a, nil, now)
		if got := props[propName].PlainText(); got != "Run – 2026-08-30" {
			t.Errorf("Name = %q, want fallback", got)
		}
	})

	t.Run("no pace for non-pace sports", func(t *testing.T) {
		t.Parallel()
		a := testActivity()
		a.Type = "Ride"
		props := MapWorkout(a, nil, now)
		if _, ok := props[propAvgPace]; ok {
			t.Error("pace written for a ride")
		}
	})

	t.Run("absent heart rate stays absent", func(t *testing.T) {
		t.Parallel()
		a := testActivity()
		a.AverageHeartrate = nil
		a.MaxHeartrate = nil
		props := MapWorkout(a, nil, now)
		if _, ok := props[propAvgHR]; ok {
			t.Error("Avg HR written without source value")
		}
		if _, ok := props[propMaxHR]; ok {
			t.Error("Max HR written without source value")
		}
	})

	t.Run("computed zero load is written", func(t *testing.T) {
		t.Parallel()
		props := MapWorkout(testActivity(), &Enrichment{
			Quality: metrics.QualityGood,
			Load:    metrics.Load{State: metrics.LoadComputed, Points: 0},
		}, now)
		got, ok := props[propLoadPts].NumberValue()
		if !ok {
			t.Fatal("Load (pts) missing for a computed load")
		}
		if got != 0 {
			t.Errorf("Load (pts) = %v, want 0", got)
		}
	})

	t.Run("inapplicable load stays absent", func(t *testing.T) {
		t.Parallel()
		props := MapWorkout(testActivity(), &Enrichment{
			Quality: metrics.QualityPartial,
			Load:    metrics.Load{State: metrics.LoadNotApplicable},
		}, now)
		if _, ok := props[propLoadPts]; ok {
			t.Error("Load (pts) written for not-applicable load")
		}
	})

	t.Run("drift and zone fields", func(t *testing.T) {
		t.Parallel()
		props := MapWorkout(testActivity(), &Enrichment{
			Quality:     metrics.QualityGood,
			ZoneMinutes: map[int]float64{1: 5, 3: 40.5},
			Load:        metrics.Load{State: metrics.LoadComputed, Points: 126.5},
			Drift: &metrics.DriftResult{
				Pct: 4.2, FirstHalfHR: 140, SecondHalfHR: 146,
				FirstHalfVel: 3, SecondHalfVel: 2.9,
			},
			DriftEligible: true,
		}, now)

		if got, _ := props["HR Zone 3 (min)"].NumberValue(); got != 40.5 {
			t.Errorf("zone 3 = %v, want 40.5", got)
		}
		if got, _ := props[propHRDriftPct].NumberValue(); got != 4.2 {
			t.Errorf("drift = %v, want 4.2", got)
		}
		// 3 m/s is 6.71 mph.
		if got, _ := props[propSpeed1stHalf].NumberValue(); got != 6.71 {
			t.Errorf("first-half speed = %v, want 6.71", got)
		}
		if props[propDriftEligible].Checkbox == nil || !*props[propDriftEligible].Checkbox {
			t.Error("Drift Eligible not set")
		}
		if got := props[propHRDataQuality].Select.Name; got != "Good" {
			t.Errorf("quality = %q, want Good", got)
		}
	})

	t.Run("weather and photo only when provided", func(t *testing.T) {
		t.Parallel()
		props := MapWorkout(testActivity(), &Enrichment{
			Quality:  metrics.QualityNone,
			PhotoURL: "https://example.com/p.jpg",
			Weather:  &weather.Observation{TempF: 72.34, Conditions: "Clear", WindMPH: 5, Humidity: 65},
		}, now)

		if got, _ := props[propTemperatureF].NumberValue(); got != 72.3 {
			t.Errorf("temperature = %v, want 72.3", got)
		}
		if got := props[propWeatherCond].PlainText(); got != "72°F, clear, 5 mph wind, 65% humidity" {
			t.Errorf("conditions = %q", got)
		}
		if got := *props[propPhotoURL].URL; got != "https://example.com/p.jpg" {
			t.Errorf("photo = %q", got)
		}
	})

	t.Run("every emitted property is system owned", func(t *testing.T) {
		t.Parallel()
		owned := workoutOwnedProperties()
		props := MapWorkout(testActivity(), &Enrichment{
			Quality:     metrics.QualityGood,
			ZoneMinutes: map[int]float64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
			Load:        metrics.Load{State: metrics.LoadComputed, Points: 55},
			Drift: &metrics.DriftResult{
				Pct: 1, FirstHalfHR: 1, SecondHalfHR: 1, FirstHalfVel: 1, SecondHalfVel: 1,
			},
			DriftEligible: true,
			PhotoURL:      "https://example.com/p.jpg",
			Weather:       &weather.Observation{TempF: 70},
		}, now)

		for name := range props {
			if _, ok := owned[name]; !ok {
				t.Errorf("mapper emitted unowned property %q", name)
			}
		}
	})
}
