package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sfSample = `locationid,Applicant,FacilityType,Address,Status,Latitude,Longitude
1,  Taco Bell Truck ,Truck,100 Main St,approved,37.7749,-122.4194
2,Curry Cart,Push Cart,200 Main St,EXPIRED,37.775,-122.4195
3,,Truck,300 Main St,APPROVED,37.7,-122.4
4,No Coords,Truck,400 Main St,REQUESTED,,
5,Placeholder,Truck,500 Main St,SUSPEND,0,0
6,Bad Coords,Truck,600 Main St,APPROVED,north,-122.4
`

func TestParseCSVNormalisesRows(t *testing.T) {
	b, err := ParseCSV(strings.NewReader(sfSample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 5 || b.Skipped != 1 {
		t.Fatalf("expected 5 records and 1 skipped, got %d and %d", len(b.Records), b.Skipped)
	}

	first := b.Records[0]
	if first.Applicant != "Taco Bell Truck" || first.Status.String() != "APPROVED" || !first.HasLocation() {
		t.Fatalf("unexpected first record %+v", first)
	}
	if first.Location.Lat != 37.7749 || first.Location.Lon != -122.4194 {
		t.Fatalf("unexpected coordinates %+v", *first.Location)
	}

	for _, r := range b.Records[2:] {
		if r.HasLocation() {
			t.Fatalf("expected %q to have no location", r.Applicant)
		}
	}
	if b.Records[3].Status.String() != "SUSPEND" {
		t.Fatalf("expected unknown status kept verbatim, got %q", b.Records[3].Status)
	}
}

func TestParseCSVRequiresApplicantColumn(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("address,status\n1 Main St,APPROVED\n")); err == nil {
		t.Fatalf("expected error for missing applicant column")
	}
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestParseCSVAcceptsByteOrderMarkAndShortRows(t *testing.T) {
	b, err := ParseCSV(strings.NewReader("\ufeffapplicant,address\nSolo Truck\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 1 || b.Records[0].Address != "" {
		t.Fatalf("expected one record with empty address, got %+v", b.Records)
	}
}

func TestCSVLoadsFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "trucks.csv")
	if err := os.WriteFile(p, []byte(sfSample), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	b, err := NewCSV(p).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(b.Records))
	}
}

func TestCSVLoadsFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resource/rqzj-sfat.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sfSample))
	}))
	defer srv.Close()

	b, err := NewCSV(srv.URL + "/resource/rqzj-sfat.csv").Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(b.Records))
	}

	if _, err := NewCSV(srv.URL + "/missing.csv").Load(context.Background()); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}
