package metrics

// HRQuality labels how much of an activity the heart-rate stream actually
// covers. Load is only ever computed from Good data; Partial and None
// propagate as "no contribution", never as an estimated value.
type HRQuality string

const (
	QualityGood    HRQuality = "Good"
	QualityPartial HRQuality = "Partial"
	QualityNone    HRQuality = "None"
)

const (
	// minHRSamples is the sample-count path to Good coverage.
	minHRSamples = 120
	// minCoverageFraction is how much of the moving time the stream must
	// span on the duration path.
	minCoverageFraction = 0.8
	// minCoverageSecondsFloor keeps very short activities from passing the
	// fraction test trivially.
	minCoverageSecondsFloor = 600
)

// Samples holds the time-aligned series for one activity. Time is seconds
// since activity start; HR is bpm; Vel is m/s. Slices may differ in length;
// consumers truncate to the shortest.
type Samples struct {
	Time []float64
	HR   []float64
	Vel  []float64
}

// aligned returns the usable sample count across the HR and time series.
func (s *Samples) aligned() int {
	if s == nil {
		return 0
	}
	return min(len(s.Time), len(s.HR))
}

// span returns the seconds covered by the time series.
func (s *Samples) span() float64 {
	n := s.aligned()
	if n < 2 {
		return 0
	}
	return s.Time[n-1] - s.Time[0]
}

// ClassifyHRQuality grades the stream's coverage of the activity.
func ClassifyHRQuality(samples *Samples, movingSeconds int) HRQuality {
	n := samples.aligned()
	if n == 0 {
		return QualityNone
	}

	required := max(float64(movingSeconds)*minCoverageFraction, minCoverageSecondsFloor)
	if n >= minHRSamples || samples.span() >= required {
		return QualityGood
	}
	return QualityPartial
}
