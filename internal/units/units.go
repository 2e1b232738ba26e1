package units

import "math"

// Conversion factors for Strava's metric payloads.
const (
	MetersToMiles             = 0.000621371
	MetersToFeet              = 3.28084
	MetersPerSecondToMPH      = 2.236936
	SecondsPerMinute          = 60
	MetersPerMile             = 1609.344
)

func Miles(meters float64) float64 {
	return meters * MetersToMiles
}

func Feet(meters float64) float64 {
	return meters * MetersToFeet
}

func MPH(metersPerSecond float64) float64 {
	return metersPerSecond * MetersPerSecondToMPH
}

func Minutes(seconds int) float64 {
	return float64(seconds) / SecondsPerMinute
}

// PaceMinPerMile returns minutes per mile, or 0 when distance is zero.
func PaceMinPerMile(movingSeconds int, distanceMeters float64) float64 {
	miles := Miles(distanceMeters)
	if miles <= 0 || movingSeconds <= 0 {
		return 0
	}
	return float64(movingSeconds) / miles / SecondsPerMinute
}

// Round rounds v to the given number of decimal places. Repeated syncs of
// unchanged source data must produce byte-identical property values, so every
// numeric written to the target store goes through this.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
