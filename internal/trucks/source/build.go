package source

import (
	"fmt"
	"net/http"
	"strings"
)

// Deps carries the clients a configured source may need.
type Deps struct {
	Rows    RowLister
	Objects Downloader
	Bucket  string
	Client  *http.Client
}

// Build turns a source kind and a comma-separated list of paths (or object
// keys) into a Source. More than one path yields a Multi.
func Build(kind, paths string, deps Deps) (Source, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))

	if kind == "postgres" {
		if deps.Rows == nil {
			return nil, fmt.Errorf("postgres source needs a database connection")
		}
		return NewPostgres(deps.Rows), nil
	}

	var parts []string
	for _, p := range strings.Split(paths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%s source needs at least one path", kind)
	}

	sources := make(Multi, 0, len(parts))
	for _, p := range parts {
		s, err := build(kind, p, deps)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return sources, nil
}

func build(kind, p string, deps Deps) (Source, error) {
	switch kind {
	case "csv":
		return &CSV{Path: p, Client: deps.Client}, nil
	case "xlsx":
		// "book.xlsx#Sheet2" selects a sheet.
		file, sheet, _ := strings.Cut(p, "#")
		return &XLSX{Path: file, Sheet: sheet, Client: deps.Client}, nil
	case "yaml":
		return NewYAML(p), nil
	case "minio":
		if deps.Objects == nil {
			return nil, fmt.Errorf("minio source needs object storage")
		}
		return NewObject(deps.Objects, deps.Bucket, p), nil
	default:
		return nil, fmt.Errorf("unsupported source %q", kind)
	}
}
