package metrics

import "stravanotion/internal/units"

// ZoneBoundary is one heart-rate zone. Max <= 0 means unbounded above
// (Strava reports -1 for the top zone).
type ZoneBoundary struct {
	Min float64
	Max float64
}

// ZoneMinutes attributes each inter-sample interval to the zone containing
// its heart rate, using real time deltas rather than assuming 1 Hz sampling.
// Returns nil when the streams or boundaries are unusable.
func ZoneMinutes(samples *Samples, zones []ZoneBoundary) map[int]float64 {
	n := samples.aligned()
	if n < 2 || len(zones) == 0 {
		return nil
	}

	seconds := make(map[int]float64, len(zones))
	for i := range zones {
		seconds[i+1] = 0
	}

	for i := 0; i < n-1; i++ {
		hr := samples.HR[i]
		dt := samples.Time[i+1] - samples.Time[i]
		if dt <= 0 {
			continue
		}
		for zi, zone := range zones {
			if hr >= zone.Min && (zone.Max <= 0 || hr < zone.Max) {
				seconds[zi+1] += dt
				break
			}
		}
	}

	minutes := make(map[int]float64, len(seconds))
	for zone, s := range seconds {
		minutes[zone] = units.Round(s/units.SecondsPerMinute, 2)
	}
	return minutes
}
