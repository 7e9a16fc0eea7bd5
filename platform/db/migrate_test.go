package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	data, err := fs.ReadFile(Migrations(), "00001_food_trucks.sql")
	if err != nil {
		t.Fatalf("expected embedded migration, got %v", err)
	}
	sql := string(data)
	for _, want := range []string{"-- +goose Up", "-- +goose Down", "CREATE TABLE IF NOT EXISTS food_trucks", "food_truck_imports"} {
		if !strings.Contains(sql, want) {
			t.Fatalf("expected migration to contain %q", want)
		}
	}
}
