package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	p := filepath.Join(t.TempDir(), "trucks.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return p
}

func TestXLSXLoadsFirstSheet(t *testing.T) {
	p := writeWorkbook(t, "Sheet1", [][]any{
		{"Applicant", "Address", "Status", "Latitude", "Longitude"},
		{"Taco Bell Truck", "100 Main St", "approved", "37,7749", "-122,4194"},
		{"Curry Cart", "200 Main St", "EXPIRED", 37.775, -122.4195},
		{"", "nobody", "APPROVED", "", ""},
	})

	b, err := NewXLSX(p, "").Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 2 || b.Skipped != 1 {
		t.Fatalf("expected 2 records and 1 skipped, got %d and %d", len(b.Records), b.Skipped)
	}
	if !b.Records[0].HasLocation() || b.Records[0].Location.Lat != 37.7749 {
		t.Fatalf("expected decimal comma to parse, got %+v", b.Records[0].Location)
	}
	if !b.Records[1].HasLocation() || b.Records[1].Location.Lon != -122.4195 {
		t.Fatalf("expected numeric cells to parse, got %+v", b.Records[1].Location)
	}
	if b.Records[0].Status.String() != "APPROVED" {
		t.Fatalf("expected status upper-cased, got %q", b.Records[0].Status)
	}
}

func TestXLSXNamedSheet(t *testing.T) {
	p := writeWorkbook(t, "Permits", [][]any{
		{"applicant", "status"},
		{"Sheet Truck", "REQUESTED"},
	})

	b, err := NewXLSX(p, "Permits").Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 1 || b.Records[0].Applicant != "Sheet Truck" {
		t.Fatalf("expected Sheet Truck, got %+v", b.Records)
	}

	if _, err := NewXLSX(p, "Missing").Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing sheet")
	}
}
