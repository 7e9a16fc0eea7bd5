// Package geo computes great-circle distances.
package geo

import "math"

// EarthRadiusMiles is the mean Earth radius used for all distances.
const EarthRadiusMiles = 3958.8

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Miles computes the haversine distance between two points in miles.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	dLat := lat2Rad - lat1Rad
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLon*sinLon

	// Rounding can push a a hair outside [0, 1] for identical or antipodal
	// points, which would make Asin return NaN.
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(a))
}
