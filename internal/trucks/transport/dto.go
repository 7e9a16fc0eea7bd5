package transport

import (
	"math"

	"foodtruck_backend/internal/trucks/service"
)

type NameSearchQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=APPROVED REQUESTED EXPIRED"`
}

// NearestRequest is the POST /search/nearest body. Pointers let validation
// tell a missing coordinate apart from 0.
type NearestRequest struct {
	Latitude           *float64 `json:"latitude" validate:"required,latitude"`
	Longitude          *float64 `json:"longitude" validate:"required,longitude"`
	IncludeAllStatuses bool     `json:"includeAllStatuses"`
	// Older clients send the snake_case flag.
	LegacyIncludeAll *bool `json:"include_all_statuses,omitempty" validate:"-"`
}

// IncludeAll reports whether non-approved permits should be ranked.
func (r NearestRequest) IncludeAll() bool {
	if r.IncludeAllStatuses {
		return true
	}
	return r.LegacyIncludeAll != nil && *r.LegacyIncludeAll
}

type TruckResponse struct {
	Applicant string   `json:"applicant"`
	Address   string   `json:"address"`
	Status    string   `json:"status"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Distance  *float64 `json:"distance,omitempty"`
}

// ToTruckResponses maps service results to the wire shape. The result is
// never nil so an empty match encodes as [].
func ToTruckResponses(results []service.Result) []TruckResponse {
	out := make([]TruckResponse, 0, len(results))
	for _, r := range results {
		resp := TruckResponse{
			Applicant: r.Record.Applicant,
			Address:   r.Record.Address,
			Status:    r.Record.Status.String(),
		}
		if r.Record.HasLocation() {
			resp.Latitude = finite(r.Record.Location.Lat)
			resp.Longitude = finite(r.Record.Location.Lon)
		}
		if r.Distance != nil {
			resp.Distance = finite(*r.Distance)
		}
		out = append(out, resp)
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
