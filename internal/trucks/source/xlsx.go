package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/xuri/excelize/v2"
)

// XLSX reads a workbook. Sheet defaults to the first sheet.
type XLSX struct {
	Path   string
	Sheet  string
	Client *http.Client
}

func NewXLSX(path, sheet string) *XLSX {
	return &XLSX{Path: path, Sheet: sheet}
}

func (s *XLSX) Name() string { return "xlsx:" + s.Path }

func (s *XLSX) Load(ctx context.Context) (Batch, error) {
	rc, err := open(ctx, s.Client, s.Path)
	if err != nil {
		return Batch{}, err
	}
	defer rc.Close()

	return ParseXLSX(rc, s.Sheet)
}

// ParseXLSX reads one sheet of a workbook. Row 1 is the header.
func ParseXLSX(r io.Reader, sheet string) (Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Batch{}, fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Batch{}, fmt.Errorf("xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Batch{}, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Batch{}, fmt.Errorf("xlsx: sheet %q is empty", sheet)
	}

	t, err := newTable(rows[0])
	if err != nil {
		return Batch{}, fmt.Errorf("xlsx: %w", err)
	}

	var b Batch
	for _, row := range rows[1:] {
		t.addRow(&b, row)
	}
	return b, nil
}
