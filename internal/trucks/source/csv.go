package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// CSV reads a header-first CSV export from a file path or http(s) URL.
type CSV struct {
	Path   string
	Client *http.Client
}

func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

func (s *CSV) Name() string { return "csv:" + s.Path }

func (s *CSV) Load(ctx context.Context) (Batch, error) {
	rc, err := open(ctx, s.Client, s.Path)
	if err != nil {
		return Batch{}, err
	}
	defer rc.Close()

	return ParseCSV(rc)
}

// ParseCSV decodes a CSV stream whose first row is the header.
func ParseCSV(r io.Reader) (Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{}, fmt.Errorf("csv: empty input")
		}
		return Batch{}, fmt.Errorf("csv: read header: %w", err)
	}
	t, err := newTable(header)
	if err != nil {
		return Batch{}, fmt.Errorf("csv: %w", err)
	}

	var b Batch
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Batch{}, fmt.Errorf("csv: %w", err)
		}
		t.addRow(&b, row)
	}
	return b, nil
}
