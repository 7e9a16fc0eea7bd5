// Package registry holds the in-memory truck registry: immutable snapshots
// and the atomically swapped store that serves them.
package registry

import (
	"strings"
	"time"

	"foodtruck_backend/internal/trucks/domain"

	"golang.org/x/text/cases"
)

// Snapshot is an immutable, point-in-time view of all truck records.
// It is safe for concurrent use; nothing mutates it after NewSnapshot.
type Snapshot struct {
	records   []domain.Record
	applicant []string
	address   []string
	source    string
	loadedAt  time.Time
}

// NewSnapshot copies records and precomputes case-folded match keys.
// Iteration order is the order of records.
func NewSnapshot(records []domain.Record, source string, loadedAt time.Time) *Snapshot {
	folder := cases.Fold()
	s := &Snapshot{
		records:   make([]domain.Record, len(records)),
		applicant: make([]string, len(records)),
		address:   make([]string, len(records)),
		source:    source,
		loadedAt:  loadedAt,
	}
	copy(s.records, records)
	for i, r := range s.records {
		s.applicant[i] = folder.String(r.Applicant)
		s.address[i] = folder.String(r.Address)
	}
	return s
}

// FindByName returns records whose applicant contains sub, ignoring case.
func (s *Snapshot) FindByName(sub string) []domain.Record {
	return s.match(s.applicant, sub)
}

// FindByAddress returns records whose address contains sub, ignoring case.
func (s *Snapshot) FindByAddress(sub string) []domain.Record {
	return s.match(s.address, sub)
}

// All returns every record in registry order. The slice is a copy.
func (s *Snapshot) All() []domain.Record {
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len is the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Source names where the snapshot was loaded from.
func (s *Snapshot) Source() string { return s.source }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func (s *Snapshot) match(keys []string, sub string) []domain.Record {
	needle := cases.Fold().String(sub)
	out := make([]domain.Record, 0)
	for i, key := range keys {
		if strings.Contains(key, needle) {
			out = append(out, s.records[i])
		}
	}
	return out
}
