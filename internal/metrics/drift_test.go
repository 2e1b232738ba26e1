package metrics

import "testing"

func TestDriftEligible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sport    string
		moving   int
		distance float64
		hasHR    bool
		want     bool
	}{
		{"qualifying run", "Run", 1800, 4.0, true, true},
		{"exactly at thresholds", "Walk", 1200, 3.0, true, true},
		{"too short", "Run", 1199, 4.0, true, false},
		{"too near", "Run", 1800, 2.9, true, false},
		{"no heart rate", "Run", 1800, 4.0, false, false},
		{"not a pace sport", "Ride", 3600, 20.0, true, false},
		{"strength work never qualifies", "WeightTraining", 3600, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DriftEligible(tt.sport, tt.moving, tt.distance, tt.hasHR)
			if got != tt.want {
				t.Errorf("DriftEligible(%q, %d, %v, %v) = %v, want %v",
					tt.sport, tt.moving, tt.distance, tt.hasHR, got, tt.want)
			}
		})
	}
}

func TestAnalyzeDrift(t *testing.T) {
	t.Parallel()

	t.Run("rising heart rate at steady speed", func(t *testing.T) {
		t.Parallel()
		got := AnalyzeDrift(&Samples{
			Time: []float64{0, 100, 200},
			HR:   []float64{140, 140, 150},
			Vel:  []float64{3, 3, 3},
		})
		if got == nil {
			t.Fatal("AnalyzeDrift() = nil, want result")
		}
		// eff1 = 140/3, eff2 = 145/3: a 3.57% rise in cost.
		if got.Pct != 3.57 {
			t.Errorf("Pct = %v, want 3.57", got.Pct)
		}
		if got.FirstHalfHR != 140 || got.SecondHalfHR != 145 {
			t.Errorf("half HR = %v/%v, want 140/145", got.FirstHalfHR, got.SecondHalfHR)
		}
	})

	t.Run("slowdown at steady heart rate", func(t *testing.T) {
		t.Parallel()
		got := AnalyzeDrift(&Samples{
			Time: []float64{0, 100, 200},
			HR:   []float64{140, 140, 140},
			Vel:  []float64{3, 3, 2},
		})
		if got == nil {
			t.Fatal("AnalyzeDrift() = nil, want result")
		}
		// Second-half velocity drops to 2.5 m/s: 3/2.5 - 1 = 20%.
		if got.Pct != 20 {
			t.Errorf("Pct = %v, want 20", got.Pct)
		}
	})

	t.Run("negative drift when second half is easier", func(t *testing.T) {
		t.Parallel()
		got := AnalyzeDrift(&Samples{
			Time: []float64{0, 100, 200},
			HR:   []float64{150, 150, 130},
			Vel:  []float64{3, 3, 3},
		})
		if got == nil {
			t.Fatal("AnalyzeDrift() = nil, want result")
		}
		if got.Pct >= 0 {
			t.Errorf("Pct = %v, want negative", got.Pct)
		}
	})

	t.Run("segment straddling the midpoint is split", func(t *testing.T) {
		t.Parallel()
		got := AnalyzeDrift(&Samples{
			Time: []float64{0, 200},
			HR:   []float64{100, 100},
			Vel:  []float64{2, 2},
		})
		if got == nil {
			t.Fatal("AnalyzeDrift() = nil, want result")
		}
		if got.Pct != 0 {
			t.Errorf("Pct = %v, want 0 for a uniform stream", got.Pct)
		}
		if got.FirstHalfHR != 100 || got.SecondHalfHR != 100 {
			t.Errorf("half HR = %v/%v, want 100/100", got.FirstHalfHR, got.SecondHalfHR)
		}
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		t.Parallel()
		for name, s := range map[string]*Samples{
			"nil":           nil,
			"single sample": {Time: []float64{0}, HR: []float64{140}, Vel: []float64{3}},
			"missing velocity": {
				Time: []float64{0, 100, 200},
				HR:   []float64{140, 140, 150},
			},
			"stopped the whole time": {
				Time: []float64{0, 100, 200},
				HR:   []float64{140, 140, 150},
				Vel:  []float64{0.05, 0.05, 0.05},
			},
		} {
			if got := AnalyzeDrift(s); got != nil {
				t.Errorf("AnalyzeDrift(%s) = %+v, want nil", name, got)
			}
		}
	})
}
