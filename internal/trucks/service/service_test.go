package service

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"foodtruck_backend/internal/trucks/domain"
	"foodtruck_backend/internal/trucks/registry"
	"foodtruck_backend/platform/apperr"
)

func f(v float64) *float64 { return &v }

func record(t *testing.T, applicant, address, status string, lat, lon *float64) domain.Record {
	t.Helper()
	r, ok := domain.NewRecord(applicant, address, status, lat, lon)
	if !ok {
		t.Fatalf("fixture %q rejected", applicant)
	}
	return r
}

func newService(records ...domain.Record) *Service {
	store := registry.NewStore()
	store.Swap(registry.NewSnapshot(records, "test", time.Now()))
	return New(store)
}

func scenario(t *testing.T) *Service {
	return newService(
		record(t, "Taco Bell Truck", "100 Main St", "APPROVED", f(37.7749), f(-122.4194)),
		record(t, "Curry Cart", "200 Main St", "EXPIRED", f(37.7750), f(-122.4195)),
	)
}

func names(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Record.Applicant
	}
	return out
}

func TestScenarioSearchByName(t *testing.T) {
	svc := scenario(t)

	got, err := svc.SearchByName("truck", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Record.Applicant != "Taco Bell Truck" {
		t.Fatalf("expected only Taco Bell Truck, got %v", names(got))
	}
	if got[0].Distance != nil {
		t.Fatalf("expected no distance on name search")
	}
}

func TestScenarioFindNearestApprovedOnly(t *testing.T) {
	svc := scenario(t)

	got, err := svc.FindNearest(37.7749, -122.4194, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Record.Applicant != "Taco Bell Truck" {
		t.Fatalf("expected only Taco Bell Truck, got %v", names(got))
	}
}

func TestScenarioFindNearestAllStatuses(t *testing.T) {
	svc := scenario(t)

	got, err := svc.FindNearest(37.7749, -122.4194, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %v", names(got))
	}
	if got[0].Record.Applicant != "Taco Bell Truck" || *got[0].Distance != 0 {
		t.Fatalf("expected Taco Bell Truck at distance 0 first, got %s at %v", got[0].Record.Applicant, *got[0].Distance)
	}
	if got[1].Record.Applicant != "Curry Cart" || *got[1].Distance <= 0 {
		t.Fatalf("expected Curry Cart second with positive distance, got %s at %v", got[1].Record.Applicant, *got[1].Distance)
	}
}

func TestFindNearestRejectsInvalidCoordinates(t *testing.T) {
	svc := scenario(t)

	cases := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too large", 200, 0},
		{"latitude too small", -90.0001, 0},
		{"longitude too large", 0, 180.5},
		{"nan latitude", math.NaN(), 0},
		{"infinite longitude", 0, math.Inf(-1)},
	}

	for _, tc := range cases {
		_, err := svc.FindNearest(tc.lat, tc.lon, false)
		if !apperr.Is(err, apperr.KindInvalidArgument) {
			t.Fatalf("%s: expected InvalidArgument, got %v", tc.name, err)
		}
	}
}

func TestFindNearestAcceptsBoundaryCoordinates(t *testing.T) {
	svc := scenario(t)

	for _, p := range [][2]float64{{90, 180}, {-90, -180}} {
		if _, err := svc.FindNearest(p[0], p[1], true); err != nil {
			t.Fatalf("expected boundary %v to be accepted, got %v", p, err)
		}
	}
}

func TestSearchRejectsBlankInput(t *testing.T) {
	svc := scenario(t)

	for _, in := range []string{"", "   ", "\t\n"} {
		if _, err := svc.SearchByName(in, ""); !apperr.Is(err, apperr.KindInvalidArgument) {
			t.Fatalf("SearchByName(%q): expected InvalidArgument, got %v", in, err)
		}
		if _, err := svc.SearchByAddress(in); !apperr.Is(err, apperr.KindInvalidArgument) {
			t.Fatalf("SearchByAddress(%q): expected InvalidArgument, got %v", in, err)
		}
	}
}

func TestSearchByNameStatusFilter(t *testing.T) {
	svc := newService(
		record(t, "Taco One", "", "APPROVED", nil, nil),
		record(t, "Taco Two", "", "EXPIRED", nil, nil),
		record(t, "Taco Three", "", "SUSPEND", nil, nil),
		record(t, "Taco Four", "", "APPROVED", nil, nil),
	)

	got, err := svc.SearchByName("taco", "APPROVED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(names(got), ",") != "Taco One,Taco Four" {
		t.Fatalf("expected approved tacos in registry order, got %v", names(got))
	}

	if _, err := svc.SearchByName("taco", "approved"); !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Fatalf("expected lowercase status filter to be InvalidArgument, got %v", err)
	}
	if _, err := svc.SearchByName("taco", "SUSPEND"); !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Fatalf("expected out-of-set status filter to be InvalidArgument, got %v", err)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	svc := newService(
		record(t, "Senor Taco", "1 MISSION ST", "APPROVED", nil, nil),
		record(t, "taco loco", "2 mission st", "REQUESTED", nil, nil),
		record(t, "Burger Bus", "3 Market St", "APPROVED", nil, nil),
	)

	lower, _ := svc.SearchByName("taco", "")
	upper, _ := svc.SearchByName("TACO", "")
	if strings.Join(names(lower), ",") != strings.Join(names(upper), ",") || len(lower) != 2 {
		t.Fatalf("expected identical case-insensitive results, got %v vs %v", names(lower), names(upper))
	}

	byAddr, err := svc.SearchByAddress("Mission")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(names(byAddr), ",") != "Senor Taco,taco loco" {
		t.Fatalf("expected both mission trucks, got %v", names(byAddr))
	}
	for _, r := range byAddr {
		if r.Distance != nil {
			t.Fatalf("expected no distance on address search")
		}
	}
}

func TestSearchMatchesRecordsWithoutLocation(t *testing.T) {
	svc := newService(record(t, "Ghost Truck", "Unknown", "APPROVED", nil, nil))

	got, err := svc.SearchByName("ghost", "")
	if err != nil || len(got) != 1 {
		t.Fatalf("expected located-less record to match by name, got %v (%v)", names(got), err)
	}
}

func TestFindNearestExcludesRecordsWithoutLocation(t *testing.T) {
	svc := newService(
		record(t, "Exactly Here", "", "APPROVED", f(0), f(0)),
		record(t, "No Coords", "", "APPROVED", nil, nil),
		record(t, "Far Away", "", "APPROVED", f(37.80), f(-122.40)),
	)

	got, err := svc.FindNearest(0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(names(got), ",") != "Far Away" {
		t.Fatalf("expected only the located truck, got %v", names(got))
	}
}

func TestFindNearestTieBreaksByApplicantIgnoringCase(t *testing.T) {
	lat, lon := f(37.7749), f(-122.4194)
	svc := newService(
		record(t, "zebra Snacks", "", "APPROVED", lat, lon),
		record(t, "Apple Cart", "", "APPROVED", lat, lon),
		record(t, "banana Stand", "", "APPROVED", lat, lon),
	)

	got, err := svc.FindNearest(37.7749, -122.4194, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(names(got), ",") != "Apple Cart,banana Stand,zebra Snacks" {
		t.Fatalf("expected case-insensitive alphabetical tie-break, got %v", names(got))
	}
}

func TestFindNearestTruncatesToLimit(t *testing.T) {
	records := make([]domain.Record, 0, 12)
	for i := 0; i < 12; i++ {
		lat := 37.70 + float64(i)*0.01
		records = append(records, record(t, string(rune('A'+i))+" Truck", "", "APPROVED", &lat, f(-122.4)))
	}
	svc := newService(records...)

	got, err := svc.FindNearest(37.70, -122.4, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != NearestLimit {
		t.Fatalf("expected %d results, got %d", NearestLimit, len(got))
	}
	if strings.Join(names(got), ",") != "A Truck,B Truck,C Truck,D Truck,E Truck" {
		t.Fatalf("unexpected order %v", names(got))
	}
}

func TestFindNearestProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	statuses := []string{"APPROVED", "REQUESTED", "EXPIRED", "SUSPEND"}

	for round := 0; round < 50; round++ {
		n := rng.IntN(40)
		records := make([]domain.Record, 0, n)
		for i := 0; i < n; i++ {
			var lat, lon *float64
			if rng.IntN(5) > 0 {
				lat = f(37.6 + rng.Float64()*0.3)
				lon = f(-122.5 + rng.Float64()*0.2)
			}
			name := []string{"Alpha", "beta", "Gamma", "delta"}[rng.IntN(4)]
			records = append(records, record(t, name, "", statuses[rng.IntN(len(statuses))], lat, lon))
		}
		svc := newService(records...)

		for _, includeAll := range []bool{false, true} {
			got, err := svc.FindNearest(37.75, -122.42, includeAll)
			if err != nil {
				t.Fatalf("round %d: unexpected error: %v", round, err)
			}
			if len(got) > NearestLimit {
				t.Fatalf("round %d: got %d results", round, len(got))
			}
			for i, r := range got {
				if r.Distance == nil || *r.Distance < 0 {
					t.Fatalf("round %d: result %d has invalid distance", round, i)
				}
				if !r.Record.HasLocation() {
					t.Fatalf("round %d: result %d has no location", round, i)
				}
				if !includeAll && !r.Record.Status.IsApproved() {
					t.Fatalf("round %d: non-approved %q returned", round, r.Record.Status)
				}
				if i == 0 {
					continue
				}
				prev := got[i-1]
				if *prev.Distance > *r.Distance {
					t.Fatalf("round %d: distances not sorted at %d", round, i)
				}
				if *prev.Distance == *r.Distance && strings.ToLower(prev.Record.Applicant) > strings.ToLower(r.Record.Applicant) {
					t.Fatalf("round %d: tie not broken alphabetically at %d", round, i)
				}
			}
		}
	}
}

func TestOperationsFailWhenRegistryNotLoaded(t *testing.T) {
	svc := New(registry.NewStore())

	if _, err := svc.SearchByName("taco", ""); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected Unavailable, got %v", err)
	}
	if _, err := svc.FindNearest(0, 0, false); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}
