package metrics

import (
	"sort"

	"stravanotion/internal/units"
)

// Confidence labels how much of a day's load signal is backed by actual
// zone data.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// SessionMetrics is the per-activity slice the daily rollup consumes.
type SessionMetrics struct {
	Date          string // YYYY-MM-DD, athlete-local
	Sport         string
	DurationMin   float64
	MovingMin     float64
	DistanceMiles float64
	ElevationFeet float64
	Load          Load
}

// DailyBucket aggregates all sessions sharing a local date.
type DailyBucket struct {
	Date          string
	DurationMin   float64
	MovingMin     float64
	DistanceMiles float64
	ElevationFeet float64
	Sessions      int
	Load          float64
	Confidence    Confidence

	loadEligible int
	loadComputed int
}

func (b *DailyBucket) confidence() Confidence {
	switch {
	case b.loadEligible > 0 && b.loadComputed == b.loadEligible:
		return ConfidenceHigh
	case b.loadComputed > 0:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// AggregateDaily groups sessions by local date. A session counts toward the
// computed tally only when its load was actually computed; a computed zero
// still counts, a NotApplicable never does. Buckets come back sorted by
// date ascending.
func AggregateDaily(sessions []SessionMetrics) []DailyBucket {
	byDate := make(map[string]*DailyBucket)
	for _, s := range sessions {
		b, ok := byDate[s.Date]
		if !ok {
			b = &DailyBucket{Date: s.Date}
			byDate[s.Date] = b
		}
		b.DurationMin += s.DurationMin
		b.MovingMin += s.MovingMin
		b.DistanceMiles += s.DistanceMiles
		b.ElevationFeet += s.ElevationFeet
		b.Sessions++

		if IsCardio(s.Sport) {
			b.loadEligible++
		}
		if s.Load.Computed() {
			b.loadComputed++
			b.Load += s.Load.Points
		}
	}

	buckets := make([]DailyBucket, 0, len(byDate))
	for _, b := range byDate {
		b.DurationMin = units.Round(b.DurationMin, 2)
		b.MovingMin = units.Round(b.MovingMin, 2)
		b.DistanceMiles = units.Round(b.DistanceMiles, 2)
		b.ElevationFeet = units.Round(b.ElevationFeet, 1)
		b.Load = units.Round(b.Load, 2)
		b.Confidence = b.confidence()
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}
