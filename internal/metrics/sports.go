package metrics

// Sport category sets. These are closed: an unknown sport tag is simply not
// a member, and the corresponding computation does not apply.

// cardioSports are eligible for zone-weighted load.
var cardioSports = map[string]struct{}{
	"Run":          {},
	"Hike":         {},
	"StairStepper": {},
	"TrailRun":     {},
	"Walk":         {},
	"VirtualRun":   {},
}

// paceSports have a meaningful minutes-per-mile pace and qualify for drift
// analysis.
var paceSports = map[string]struct{}{
	"Run":        {},
	"TrailRun":   {},
	"Walk":       {},
	"Hike":       {},
	"VirtualRun": {},
}

// indoorSports never get a weather lookup.
var indoorSports = map[string]struct{}{
	"WeightTraining": {},
	"Workout":        {},
	"Crossfit":       {},
}

func IsCardio(sport string) bool {
	_, ok := cardioSports[sport]
	return ok
}

func IsPaceSport(sport string) bool {
	_, ok := paceSports[sport]
	return ok
}

func IsIndoor(sport string) bool {
	_, ok := indoorSports[sport]
	return ok
}
