package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseYAMLList(t *testing.T) {
	doc := `
- applicant: Taco Bell Truck
  address: 100 Main St
  status: approved
  latitude: 37.7749
  longitude: -122.4194
- applicant: "  "
  status: APPROVED
- applicant: Ghost Truck
  status: REQUESTED
`
	b, err := ParseYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 2 || b.Skipped != 1 {
		t.Fatalf("expected 2 records and 1 skipped, got %d and %d", len(b.Records), b.Skipped)
	}
	if !b.Records[0].Status.IsApproved() || !b.Records[0].HasLocation() {
		t.Fatalf("unexpected first record %+v", b.Records[0])
	}
	if b.Records[1].HasLocation() {
		t.Fatalf("expected Ghost Truck without location")
	}
}

func TestYAMLLoadsWrappedDocument(t *testing.T) {
	p := filepath.Join(t.TempDir(), "seed.yaml")
	doc := "trucks:\n  - applicant: Seed Truck\n    status: EXPIRED\n"
	if err := os.WriteFile(p, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	b, err := NewYAML(p).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 1 || b.Records[0].Applicant != "Seed Truck" {
		t.Fatalf("expected Seed Truck, got %+v", b.Records)
	}
}

func TestParseYAMLRejectsScalars(t *testing.T) {
	if _, err := ParseYAML(strings.NewReader("just a string\n")); err == nil {
		t.Fatalf("expected error for scalar document")
	}
	if _, err := ParseYAML(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty document")
	}
}
