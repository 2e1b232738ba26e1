package weather

import "testing"

func TestWeathercodeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want string
	}{
		{0, "Clear"},
		{1, "Partly cloudy"},
		{3, "Cloudy"},
		{45, "Fog"},
		{53, "Drizzle"},
		{63, "Rain"},
		{75, "Snow"},
		{81, "Rain showers"},
		{86, "Snow showers"},
		{99, "Thunderstorm"},
		{42, "Unknown"},
	}

	for _, tt := range tests {
		if got := weathercodeText(tt.code); got != tt.want {
			t.Errorf("weathercodeText(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestObservationSummary(t *testing.T) {
	t.Parallel()

	obs := &Observation{TempF: 72.4, Conditions: "Clear", WindMPH: 5.3, Humidity: 65}
	want := "72°F, clear, 5 mph wind, 65% humidity"
	if got := obs.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
