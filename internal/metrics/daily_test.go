package metrics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAggregateDaily(t *testing.T) {
	t.Parallel()

	sessions := []SessionMetrics{
		{
			Date: "2026-08-29", Sport: "Run",
			DurationMin: 45, MovingMin: 42, DistanceMiles: 5.2, ElevationFeet: 210,
			Load: Load{State: LoadComputed, Points: 90.5},
		},
		{
			Date: "2026-08-29", Sport: "WeightTraining",
			DurationMin: 60, MovingMin: 55,
			Load: Load{State: LoadNotApplicable},
		},
		{
			Date: "2026-08-30", Sport: "Run",
			DurationMin: 30, MovingMin: 28, DistanceMiles: 3.1, ElevationFeet: 80,
			Load: Load{State: LoadComputed, Points: 55},
		},
		{
			Date: "2026-08-30", Sport: "Hike",
			DurationMin: 90, MovingMin: 80, DistanceMiles: 4, ElevationFeet: 900,
			Load: Load{State: LoadNotApplicable},
		},
	}

	got := AggregateDaily(sessions)
	want := []DailyBucket{
		{
			Date: "2026-08-29", DurationMin: 105, MovingMin: 97,
			DistanceMiles: 5.2, ElevationFeet: 210,
			Sessions: 2, Load: 90.5, Confidence: ConfidenceHigh,
		},
		{
			Date: "2026-08-30", DurationMin: 120, MovingMin: 108,
			DistanceMiles: 7.1, ElevationFeet: 980,
			Sessions: 2, Load: 55, Confidence: ConfidenceMedium,
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(DailyBucket{})); diff != "" {
		t.Errorf("AggregateDaily() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateDailyConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sessions []SessionMetrics
		want     Confidence
	}{
		{
			name: "all eligible sessions computed",
			sessions: []SessionMetrics{
				{Date: "2026-08-30", Sport: "Run", Load: Load{State: LoadComputed, Points: 40}},
				{Date: "2026-08-30", Sport: "Walk", Load: Load{State: LoadComputed, Points: 10}},
			},
			want: ConfidenceHigh,
		},
		{
			name: "computed zero still counts as computed",
			sessions: []SessionMetrics{
				{Date: "2026-08-30", Sport: "Run", Load: Load{State: LoadComputed, Points: 0}},
			},
			want: ConfidenceHigh,
		},
		{
			name: "some eligible sessions missing load",
			sessions: []SessionMetrics{
				{Date: "2026-08-30", Sport: "Run", Load: Load{State: LoadComputed, Points: 40}},
				{Date: "2026-08-30", Sport: "Run", Load: Load{State: LoadNotApplicable}},
			},
			want: ConfidenceMedium,
		},
		{
			name: "nothing computed",
			sessions: []SessionMetrics{
				{Date: "2026-08-30", Sport: "Run", Load: Load{State: LoadNotApplicable}},
			},
			want: ConfidenceLow,
		},
		{
			name: "no eligible sessions at all",
			sessions: []SessionMetrics{
				{Date: "2026-08-30", Sport: "WeightTraining", Load: Load{State: LoadNotApplicable}},
			},
			want: ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AggregateDaily(tt.sessions)
			if len(got) != 1 {
				t.Fatalf("AggregateDaily() returned %d buckets, want 1", len(got))
			}
			if got[0].Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", got[0].Confidence, tt.want)
			}
		})
	}
}
