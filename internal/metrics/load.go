package metrics

import "stravanotion/internal/units"

// LoadState is a tri-state: a quantity that was never attempted, one the
// gates ruled out, and one actually computed are three different facts.
// "Computed as zero" and "not applicable" must never collapse into each
// other downstream.
type LoadState int

const (
	LoadPending LoadState = iota
	LoadNotApplicable
	LoadComputed
)

type Load struct {
	State  LoadState
	Points float64
}

func (l Load) Computed() bool {
	return l.State == LoadComputed
}

// ZoneWeightedLoad computes Σ(minutes in zone i × i) for zones 1–5, gated on
// the sport being a cardio category and the HR data being Good. When the
// gate fails the result is NotApplicable, not zero.
func ZoneWeightedLoad(zoneMinutes map[int]float64, sport string, quality HRQuality) Load {
	if !IsCardio(sport) || quality != QualityGood || zoneMinutes == nil {
		return Load{State: LoadNotApplicable}
	}

	var points float64
	for zone := 1; zone <= 5; zone++ {
		points += zoneMinutes[zone] * float64(zone)
	}

	return Load{State: LoadComputed, Points: units.Round(points, 2)}
}
