package strava

import "time"

// Activity is one exercise session as returned by /athlete/activities.
// The external ID is immutable and globally unique on the Strava side; it is
// the idempotency key for everything downstream.
type Activity struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	StartDate          time.Time  `json:"start_date"`
	StartDateLocal     time.Time  `json:"start_date_local"`
	ElapsedTime        int        `json:"elapsed_time"`
	MovingTime         int        `json:"moving_time"`
	Distance           float64    `json:"distance"`
	TotalElevationGain float64    `json:"total_elevation_gain"`
	AverageHeartrate   *float64   `json:"average_heartrate,omitempty"`
	MaxHeartrate       *float64   `json:"max_heartrate,omitempty"`
	HasHeartrate       bool       `json:"has_heartrate"`
	StartLatLng        []float64  `json:"start_latlng,omitempty"`
}

// LocalDate returns the activity's calendar date as YYYY-MM-DD, preferring
// the athlete's local wall-clock start over the UTC instant.
func (a *Activity) LocalDate() string {
	const layout = "2006-01-02"
	if !a.StartDateLocal.IsZero() {
		return a.StartDateLocal.Format(layout)
	}
	return a.StartDate.UTC().Format(layout)
}

// StartCoordinate returns the start latitude/longitude, or false when the
// activity has no GPS fix (indoor sessions, privacy zones).
func (a *Activity) StartCoordinate() (lat, lng float64, ok bool) {
	if len(a.StartLatLng) < 2 {
		return 0, 0, false
	}
	return a.StartLatLng[0], a.StartLatLng[1], true
}

// ZoneRange is one heart-rate zone boundary from /athlete/zones.
// Max <= 0 means the zone is unbounded above (Strava reports -1).
type ZoneRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Streams holds the per-activity sample series requested with
// key_by_type=true. Any of the series may be missing.
type Streams struct {
	Time           *StreamData[float64] `json:"time"`
	Heartrate      *StreamData[float64] `json:"heartrate"`
	VelocitySmooth *StreamData[float64] `json:"velocity_smooth"`
}

type StreamData[T any] struct {
	Data         []T    `json:"data"`
	SeriesType   string `json:"series_type"`
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

func (s *Streams) HasHeartrate() bool {
	return s != nil && s.Heartrate != nil && len(s.Heartrate.Data) > 0 &&
		s.Time != nil && len(s.Time.Data) > 0
}

func (s *Streams) HasVelocity() bool {
	return s != nil && s.VelocitySmooth != nil && len(s.VelocitySmooth.Data) > 0
}

// ActivityDetail is the subset of the single-activity endpoint this system
// reads: the primary photo reference.
type ActivityDetail struct {
	ID     int64 `json:"id"`
	Photos struct {
		Primary *struct {
			URLs map[string]string `json:"urls"`
		} `json:"primary"`
	} `json:"photos"`
}

// PrimaryPhotoURL prefers higher-resolution variants when present.
func (d *ActivityDetail) PrimaryPhotoURL() string {
	if d == nil || d.Photos.Primary == nil {
		return ""
	}
	urls := d.Photos.Primary.URLs
	for _, key := range []string{"1200", "600", "300"} {
		if u, ok := urls[key]; ok {
			return u
		}
	}
	for _, u := range urls {
		return u
	}
	return ""
}
