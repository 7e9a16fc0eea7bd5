package source

import (
	"context"

	"foodtruck_backend/internal/trucks/domain"
	"foodtruck_backend/internal/trucks/repository"
)

// RowLister reads stored permits; *repository.Repository implements it.
type RowLister interface {
	List(ctx context.Context) ([]repository.Row, error)
}

// Postgres loads the food_trucks table written by the importer.
type Postgres struct {
	rows RowLister
}

func NewPostgres(rows RowLister) *Postgres {
	return &Postgres{rows: rows}
}

func (s *Postgres) Name() string { return "postgres:food_trucks" }

func (s *Postgres) Load(ctx context.Context) (Batch, error) {
	rows, err := s.rows.List(ctx)
	if err != nil {
		return Batch{}, err
	}

	b := Batch{Records: make([]domain.Record, 0, len(rows))}
	for _, r := range rows {
		b.add(r.Applicant, r.Address, r.Status, r.Latitude, r.Longitude)
	}
	return b, nil
}
