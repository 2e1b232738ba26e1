package metrics

import (
	"time"

	"stravanotion/internal/units"
)

// RollingLoad holds inclusive trailing-window load sums ending today.
// Balance is the 7d/28d ratio and is absent when the 28-day sum is zero;
// a ratio against nothing is not a ratio.
type RollingLoad struct {
	Load7d  float64
	Load28d float64
	Balance *float64
}

const dateLayout = "2006-01-02"

// ComputeRolling sums per-date loads over [today−6, today] and
// [today−27, today]. Dates that fail to parse are skipped.
func ComputeRolling(dailyLoad map[string]float64, today time.Time) RollingLoad {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	start7 := day.AddDate(0, 0, -6)
	start28 := day.AddDate(0, 0, -27)

	var r RollingLoad
	for d, load := range dailyLoad {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		if t.After(day) || t.Before(start28) {
			continue
		}
		r.Load28d += load
		if !t.Before(start7) {
			r.Load7d += load
		}
	}

	r.Load7d = units.Round(r.Load7d, 2)
	r.Load28d = units.Round(r.Load28d, 2)
	if r.Load28d > 0 {
		b := units.Round(r.Load7d/r.Load28d, 3)
		r.Balance = &b
	}
	return r
}
