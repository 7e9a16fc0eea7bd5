package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodtruck_backend/internal/trucks/domain"
	"foodtruck_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Row is a stored permit as written by the importer.
type Row struct {
	Applicant string
	Address   string
	Status    string
	Latitude  *float64
	Longitude *float64
}

// Import describes one replacement of the food_trucks table.
type Import struct {
	ID         uuid.UUID
	Source     string
	Records    int
	Skipped    int
	ImportedAt time.Time
}

// List returns every stored permit in import order.
func (r *Repository) List(ctx context.Context) ([]Row, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT applicant, address, status, latitude, longitude
		FROM food_trucks
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query food trucks: %w", err)
	}
	defer rows.Close()

	out := make([]Row, 0)
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Applicant, &row.Address, &row.Status, &row.Latitude, &row.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan food truck: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate food trucks: %w", err)
	}
	return out, nil
}

// ReplaceAll swaps the table contents for records in one transaction, so
// readers see either the old set or the new one. Identity is restarted so
// id order is the order of records.
func (r *Repository) ReplaceAll(ctx context.Context, imp Import, records []domain.Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE food_trucks RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to clear food trucks: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"food_trucks"},
		[]string{"applicant", "address", "status", "latitude", "longitude", "import_id"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			var lat, lon *float64
			if rec.HasLocation() {
				lat, lon = &rec.Location.Lat, &rec.Location.Lon
			}
			return []any{rec.Applicant, rec.Address, rec.Status.String(), lat, lon, imp.ID}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy food trucks: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO food_truck_imports (id, source, records, skipped, imported_at)
		VALUES ($1, $2, $3, $4, $5)`,
		imp.ID, imp.Source, imp.Records, imp.Skipped, imp.ImportedAt,
	); err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	return tx.Commit(ctx)
}

// LatestImport returns the most recent import.
func (r *Repository) LatestImport(ctx context.Context) (Import, error) {
	var imp Import
	err := r.pool.QueryRow(ctx, `
		SELECT id, source, records, skipped, imported_at
		FROM food_truck_imports
		ORDER BY imported_at DESC
		LIMIT 1`).Scan(&imp.ID, &imp.Source, &imp.Records, &imp.Skipped, &imp.ImportedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Import{}, apperr.NotFound("no food truck import found")
	}
	if err != nil {
		return Import{}, fmt.Errorf("failed to query latest import: %w", err)
	}
	return imp, nil
}

// DeleteImportsBefore prunes import history older than cutoff. The most
// recent import is always kept.
func (r *Repository) DeleteImportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM food_truck_imports
		WHERE imported_at < $1
		  AND id <> (SELECT id FROM food_truck_imports ORDER BY imported_at DESC LIMIT 1)`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old imports: %w", err)
	}
	return tag.RowsAffected(), nil
}
