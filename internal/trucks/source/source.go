// Package source loads truck permit records from the places the registry
// can be fed from: CSV or XLSX exports (local or over HTTP), YAML seed
// files, the food_trucks table and object storage.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"foodtruck_backend/internal/trucks/domain"
)

// Batch is the outcome of one load. Skipped counts rows that could not
// become a record, typically because the applicant was blank.
type Batch struct {
	Records []domain.Record
	Skipped int
}

func (b *Batch) add(applicant, address, status string, lat, lon *float64) {
	r, ok := domain.NewRecord(applicant, address, strings.ToUpper(strings.TrimSpace(status)), lat, lon)
	if !ok {
		b.Skipped++
		return
	}
	b.Records = append(b.Records, r)
}

// Source produces a full set of records. Implementations must be safe to
// call repeatedly; each call returns a fresh batch.
type Source interface {
	Name() string
	Load(ctx context.Context) (Batch, error)
}

// Format is a registry file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
)

// FormatFor picks a format from a path or object key extension.
// Anything unrecognised is read as CSV, which is what the SF endpoint serves.
func FormatFor(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx":
		return FormatXLSX
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// Parse decodes r according to format.
func Parse(format Format, r io.Reader) (Batch, error) {
	switch format {
	case FormatXLSX:
		return ParseXLSX(r, "")
	case FormatYAML:
		return ParseYAML(r)
	default:
		return ParseCSV(r)
	}
}

const defaultHTTPTimeout = 60 * time.Second

var defaultClient = &http.Client{Timeout: defaultHTTPTimeout}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// open returns a reader for a local file or an http(s) URL.
func open(ctx context.Context, client *http.Client, p string) (io.ReadCloser, error) {
	if !isURL(p) {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		return f, nil
	}

	if client == nil {
		client = defaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", p, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", p, resp.Status)
	}
	return resp.Body, nil
}
