package metrics

import "stravanotion/internal/units"

const (
	// Drift eligibility gates. Short or slow efforts produce noise, not
	// a decoupling signal.
	DriftMinMovingSeconds = 20 * 60
	DriftMinDistanceMiles = 3.0

	// Samples at or below this velocity are treated as stopped and
	// excluded from efficiency means.
	driftVelocityFloor = 0.1
)

// DriftEligible reports whether an activity qualifies for aerobic drift
// analysis: a pace sport, long enough, far enough, and carrying HR data.
func DriftEligible(sport string, movingSeconds int, distanceMiles float64, hasHR bool) bool {
	return IsPaceSport(sport) &&
		movingSeconds >= DriftMinMovingSeconds &&
		distanceMiles >= DriftMinDistanceMiles &&
		hasHR
}

// DriftResult holds the signed drift percentage alongside the per-half
// means it was derived from.
type DriftResult struct {
	Pct           float64
	FirstHalfHR   float64
	SecondHalfHR  float64
	FirstHalfVel  float64 // m/s
	SecondHalfVel float64 // m/s
}

type halfAccum struct {
	dt     float64
	hr     float64
	vel    float64
	moved  float64 // dt where velocity cleared the floor
	hrSum  float64
	velSum float64
}

func (h *halfAccum) add(dt, hr, vel float64) {
	h.dt += dt
	h.hrSum += hr * dt
	if vel > driftVelocityFloor {
		h.velSum += vel * dt
		h.moved += dt
	}
}

func (h *halfAccum) means() (hr, vel float64, ok bool) {
	if h.dt <= 0 || h.moved <= 0 {
		return 0, 0, false
	}
	return h.hrSum / h.dt, h.velSum / h.moved, true
}

// AnalyzeDrift splits the aligned HR/velocity stream at its temporal
// midpoint, computes time-weighted means per half, and returns the relative
// change in efficiency (mean HR / mean velocity) as a signed percentage.
// Positive drift means the second half cost more heartbeats per unit of
// speed. Segments straddling the midpoint are split proportionally so the
// halves cover equal time. Returns nil when the stream is too short or the
// halves are degenerate.
func AnalyzeDrift(samples *Samples) *DriftResult {
	if samples == nil {
		return nil
	}
	n := samples.aligned()
	if n < 2 {
		return nil
	}
	if len(samples.Vel) < n {
		return nil
	}

	mid := samples.Time[0] + (samples.Time[n-1]-samples.Time[0])/2

	var first, second halfAccum
	for i := 1; i < n; i++ {
		t0, t1 := samples.Time[i-1], samples.Time[i]
		dt := t1 - t0
		if dt <= 0 {
			continue
		}
		hr := (samples.HR[i-1] + samples.HR[i]) / 2
		vel := (samples.Vel[i-1] + samples.Vel[i]) / 2

		switch {
		case t1 <= mid:
			first.add(dt, hr, vel)
		case t0 >= mid:
			second.add(dt, hr, vel)
		default:
			first.add(mid-t0, hr, vel)
			second.add(t1-mid, hr, vel)
		}
	}

	hr1, vel1, ok1 := first.means()
	hr2, vel2, ok2 := second.means()
	if !ok1 || !ok2 {
		return nil
	}

	eff1 := hr1 / vel1
	eff2 := hr2 / vel2
	if eff1 <= 0 {
		return nil
	}

	return &DriftResult{
		Pct:           units.Round((eff2-eff1)/eff1*100, 2),
		FirstHalfHR:   units.Round(hr1, 1),
		SecondHalfHR:  units.Round(hr2, 1),
		FirstHalfVel:  vel1,
		SecondHalfVel: vel2,
	}
}
