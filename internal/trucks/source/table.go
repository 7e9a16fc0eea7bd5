package source

import (
	"fmt"
	"strconv"
	"strings"
)

// Header names are matched case-insensitively. The SF dataset uses
// lowercase names; hand-made exports tend to capitalise them.
var columnAliases = map[string][]string{
	"applicant": {"applicant", "name"},
	"address":   {"address"},
	"status":    {"status"},
	"latitude":  {"latitude", "lat"},
	"longitude": {"longitude", "lon", "lng"},
}

// table maps the five record fields to column positions. -1 means absent.
type table struct {
	applicant, address, status, latitude, longitude int
}

func newTable(header []string) (table, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	find := func(field string) int {
		for _, alias := range columnAliases[field] {
			if i, ok := index[alias]; ok {
				return i
			}
		}
		return -1
	}

	t := table{
		applicant: find("applicant"),
		address:   find("address"),
		status:    find("status"),
		latitude:  find("latitude"),
		longitude: find("longitude"),
	}
	if t.applicant < 0 {
		return table{}, fmt.Errorf("header has no applicant column")
	}
	return t, nil
}

func (t table) addRow(b *Batch, row []string) {
	b.add(
		cell(row, t.applicant),
		cell(row, t.address),
		cell(row, t.status),
		parseCoord(cell(row, t.latitude)),
		parseCoord(cell(row, t.longitude)),
	)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseCoord returns nil for blank or unparsable values. A decimal comma is
// accepted since spreadsheet exports from some locales write one.
func parseCoord(val string) *float64 {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return nil
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}
	return &v
}
