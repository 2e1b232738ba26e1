// Package syncer turns Strava activities into Notion rows and reconciles
// them against the target databases.
package syncer

import (
	"fmt"
	"strconv"
	"time"

	"stravanotion/internal/client/notion"
	"stravanotion/internal/client/strava"
	"stravanotion/internal/client/weather"
	"stravanotion/internal/metrics"
	"stravanotion/internal/units"
)

// Workouts database property names. This set is closed: the mapper writes
// these and nothing else, so any other column in the database belongs to the
// user and is never touched.
const (
	propName           = "Name"
	propActivityID     = "Activity ID"
	propDate           = "Date"
	propSport          = "Sport"
	propDurationMin    = "Duration (min)"
	propDistanceMi     = "Distance (mi)"
	propElevationFt    = "Elevation (ft)"
	propStravaURL      = "Strava URL"
	propLastSynced     = "Last Synced"
	propAvgHR          = "Avg HR"
	propMaxHR          = "Max HR"
	propAvgPace        = "Avg Pace (min/mi)"
	propMovingTimeMin  = "Moving Time (min)"
	propHRDriftPct     = "HR Drift (%)"
	propHR1stHalf      = "HR 1st Half (bpm)"
	propHR2ndHalf      = "HR 2nd Half (bpm)"
	propSpeed1stHalf   = "Speed 1st Half (mph)"
	propSpeed2ndHalf   = "Speed 2nd Half (mph)"
	propDriftEligible  = "Drift Eligible"
	propHRDataQuality  = "HR Data Quality"
	propTemperatureF   = "Temperature (°F)"
	propWeatherCond    = "Weather Conditions"
	propSyncStatus     = "Sync Status"
	propPhotoURL       = "Photo URL"
	propLoadPts        = "Load (pts)"
	propHRZoneMinFmt   = "HR Zone %d (min)"
)

// workoutOwnedProperties is every property name the mapper may emit for a
// workout row.
func workoutOwnedProperties() map[string]struct{} {
	owned := map[string]struct{}{
		propName: {}, propActivityID: {}, propDate: {}, propSport: {},
		propDurationMin: {}, propDistanceMi: {}, propElevationFt: {},
		propStravaURL: {}, propLastSynced: {}, propAvgHR: {}, propMaxHR: {},
		propAvgPace: {}, propMovingTimeMin: {}, propHRDriftPct: {},
		propHR1stHalf: {}, propHR2ndHalf: {}, propSpeed1stHalf: {},
		propSpeed2ndHalf: {}, propDriftEligible: {}, propHRDataQuality: {},
		propTemperatureF: {}, propWeatherCond: {}, propSyncStatus: {},
		propPhotoURL: {}, propLoadPts: {},
	}
	for zone := 1; zone <= 5; zone++ {
		owned[fmt.Sprintf(propHRZoneMinFmt, zone)] = struct{}{}
	}
	return owned
}

// Enrichment carries the derived metrics and optional context computed for
// one activity before mapping.
type Enrichment struct {
	Quality       metrics.HRQuality
	ZoneMinutes   map[int]float64
	Load          metrics.Load
	Drift         *metrics.DriftResult
	DriftEligible bool
	PhotoURL      string
	Weather       *weather.Observation
}

// MapWorkout converts an activity plus its enrichment into the properties of
// a workout row. Absent source values produce absent properties, never
// zeroes.
func MapWorkout(a *strava.Activity, enr *Enrichment, now time.Time) map[string]notion.Property {
	id := strconv.FormatInt(a.ID, 10)

	sport := a.Type
	if sport == "" {
		sport = "Workout"
	}

	name := a.Name
	if name == "" {
		name = sport + " – " + a.LocalDate()
	}

	distanceMi := units.Miles(a.Distance)

	props := map[string]notion.Property{
		propName:        notion.Title(name),
		propActivityID:  notion.Text(id),
		propDate:        notion.Date(a.StartDate),
		propSport:       notion.Select(sport),
		propDurationMin: notion.Number(units.Round(units.Minutes(a.ElapsedTime), 2)),
		propDistanceMi:  notion.Number(units.Round(distanceMi, 2)),
		propElevationFt: notion.Number(units.Round(units.Feet(a.TotalElevationGain), 1)),
		propStravaURL:   notion.URL("https://www.strava.com/activities/" + id),
		propLastSynced:  notion.Date(now),
	}

	if a.AverageHeartrate != nil {
		props[propAvgHR] = notion.Number(*a.AverageHeartrate)
	}
	if a.MaxHeartrate != nil {
		props[propMaxHR] = notion.Number(*a.MaxHeartrate)
	}
	if metrics.IsPaceSport(sport) && distanceMi > 0 && a.MovingTime > 0 {
		pace := units.PaceMinPerMile(a.MovingTime, a.Distance)
		props[propAvgPace] = notion.Number(units.Round(pace, 2))
	}
	if a.MovingTime > 0 {
		props[propMovingTimeMin] = notion.Number(units.Round(units.Minutes(a.MovingTime), 2))
	}

	if enr == nil {
		return props
	}

	for zone, minutes := range enr.ZoneMinutes {
		props[fmt.Sprintf(propHRZoneMinFmt, zone)] = notion.Number(minutes)
	}

	if enr.Drift != nil {
		props[propHRDriftPct] = notion.Number(enr.Drift.Pct)
		props[propHR1stHalf] = notion.Number(enr.Drift.FirstHalfHR)
		props[propHR2ndHalf] = notion.Number(enr.Drift.SecondHalfHR)
		props[propSpeed1stHalf] = notion.Number(units.Round(units.MPH(enr.Drift.FirstHalfVel), 2))
		props[propSpeed2ndHalf] = notion.Number(units.Round(units.MPH(enr.Drift.SecondHalfVel), 2))
	}

	props[propDriftEligible] = notion.Checkbox(enr.DriftEligible)
	if enr.Quality != "" {
		props[propHRDataQuality] = notion.Select(string(enr.Quality))
	}

	// A computed load is written even when it is zero; only NotApplicable
	// and Pending stay absent.
	if enr.Load.Computed() {
		props[propLoadPts] = notion.Number(enr.Load.Points)
	}

	if enr.PhotoURL != "" {
		props[propPhotoURL] = notion.URL(enr.PhotoURL)
	}
	if enr.Weather != nil {
		props[propTemperatureF] = notion.Number(units.Round(enr.Weather.TempF, 1))
		props[propWeatherCond] = notion.Text(enr.Weather.Summary())
	}

	return props
}
