package service

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"foodtruck_backend/internal/trucks/domain"
	"foodtruck_backend/internal/trucks/geo"
	"foodtruck_backend/internal/trucks/registry"
	"foodtruck_backend/platform/apperr"

	"golang.org/x/text/cases"
)

// NearestLimit caps the nearest-trucks response.
const NearestLimit = 5

// Result is a record plus the distance from the query point. Distance is
// nil for name and address searches.
type Result struct {
	Record   domain.Record
	Distance *float64
}

// SnapshotProvider exposes the active registry snapshot.
type SnapshotProvider interface {
	Current() *registry.Snapshot
}

type Service struct {
	registry SnapshotProvider
}

func New(registry SnapshotProvider) *Service {
	return &Service{registry: registry}
}

// SearchByName matches applicant names. status, when non-empty, must be one
// of APPROVED, REQUESTED or EXPIRED and is compared exactly.
func (s *Service) SearchByName(name, status string) ([]Result, error) {
	const op = "trucks.SearchByName"

	q := strings.TrimSpace(name)
	if q == "" {
		return nil, apperr.InvalidArgument("name is required").WithOp(op)
	}

	var filter *domain.Status
	if status != "" {
		st, ok := domain.LookupFilterStatus(status)
		if !ok {
			return nil, apperr.InvalidArgument("invalid status").WithOp(op).
				WithDetails([]string{"status: oneof=APPROVED REQUESTED EXPIRED"})
		}
		filter = &st
	}

	snap, err := s.snapshot(op)
	if err != nil {
		return nil, err
	}

	matches := snap.FindByName(q)
	results := make([]Result, 0, len(matches))
	for _, r := range matches {
		if filter != nil && !r.Status.Equal(*filter) {
			continue
		}
		results = append(results, Result{Record: r})
	}
	return results, nil
}

// SearchByAddress matches street addresses.
func (s *Service) SearchByAddress(address string) ([]Result, error) {
	const op = "trucks.SearchByAddress"

	q := strings.TrimSpace(address)
	if q == "" {
		return nil, apperr.InvalidArgument("address is required").WithOp(op)
	}

	snap, err := s.snapshot(op)
	if err != nil {
		return nil, err
	}

	matches := snap.FindByAddress(q)
	results := make([]Result, len(matches))
	for i, r := range matches {
		results[i] = Result{Record: r}
	}
	return results, nil
}

// FindNearest ranks located trucks by distance from (latitude, longitude).
// Unless includeAllStatuses is set only APPROVED permits are considered.
// Ties are broken by applicant name, ignoring case, then registry order.
func (s *Service) FindNearest(latitude, longitude float64, includeAllStatuses bool) ([]Result, error) {
	const op = "trucks.FindNearest"

	var invalid []string
	if !finiteIn(latitude, -90, 90) {
		invalid = append(invalid, "latitude: must be a number between -90 and 90")
	}
	if !finiteIn(longitude, -180, 180) {
		invalid = append(invalid, "longitude: must be a number between -180 and 180")
	}
	if len(invalid) > 0 {
		return nil, apperr.InvalidArgument("invalid coordinates").WithOp(op).WithDetails(invalid)
	}

	snap, err := s.snapshot(op)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		Result
		key string
	}

	folder := cases.Fold()
	candidates := make([]ranked, 0)
	for _, r := range snap.All() {
		if !includeAllStatuses && !r.Status.IsApproved() {
			continue
		}
		if !r.HasLocation() {
			continue
		}
		d := geo.Miles(latitude, longitude, r.Location.Lat, r.Location.Lon)
		candidates = append(candidates, ranked{
			Result: Result{Record: r, Distance: &d},
			key:    folder.String(r.Applicant),
		})
	}

	slices.SortStableFunc(candidates, func(a, b ranked) int {
		if c := cmp.Compare(*a.Distance, *b.Distance); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})

	if len(candidates) > NearestLimit {
		candidates = candidates[:NearestLimit]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = c.Result
	}
	return results, nil
}

func (s *Service) snapshot(op string) (*registry.Snapshot, error) {
	snap := s.registry.Current()
	if snap == nil {
		return nil, apperr.Unavailable("truck registry is not loaded yet").WithOp(op)
	}
	return snap, nil
}

func finiteIn(v, lo, hi float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= lo && v <= hi
}
