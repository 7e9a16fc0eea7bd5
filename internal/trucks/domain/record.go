// Package domain holds the food truck permit model shared by the registry,
// the search service and the data sources.
package domain

import (
	"math"
	"strings"
)

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether c is a finite, in-range coordinate.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Record is one permitted food truck.
type Record struct {
	Applicant string
	Address   string
	Status    Status
	// Location is nil when the source had no usable coordinate.
	Location *Coordinate
}

// HasLocation reports whether r can take part in distance ranking.
func (r Record) HasLocation() bool {
	return r.Location != nil && r.Location.Valid()
}

// NewRecord normalises raw field values into a Record. Text is trimmed and
// status is parsed. lat/lon are kept only when both are present, valid, and
// not the 0,0 placeholder permit datasets use for "unknown". ok is false
// when the applicant is empty, since such a row cannot be displayed.
func NewRecord(applicant, address, status string, lat, lon *float64) (Record, bool) {
	r := Record{
		Applicant: strings.TrimSpace(applicant),
		Address:   strings.TrimSpace(address),
		Status:    ParseStatus(status),
	}
	if r.Applicant == "" {
		return Record{}, false
	}

	if lat != nil && lon != nil {
		c := Coordinate{Lat: *lat, Lon: *lon}
		if c.Valid() && !(c.Lat == 0 && c.Lon == 0) {
			r.Location = &c
		}
	}
	return r, true
}
