// Package catalog reads the redemption-code spreadsheet. The workbook is
// owned by the event staff and edited while the service runs, so every lookup
// re-reads the file rather than caching it.
package catalog

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source reads code-to-page mappings from an xlsx workbook. Column A holds the
// code, column B the destination page; row 1 is the header.
type Source struct {
	Path string
}

func NewSource(path string) *Source {
	return &Source{Path: path}
}

// Lookup scans the catalog for an exact match on the trimmed code and returns
// the destination page. The scan is linear and stops at the first match, so
// duplicate codes resolve to the earliest row. ok is false when the code is
// absent; a non-nil error means the workbook could not be read at all.
func (s *Source) Lookup(code string) (page string, ok bool, err error) {
	rows, err := s.readRows()
	if err != nil {
		return "", false, err
	}

	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		// A blank code cell must never match, even against an empty
		// submission.
		c := strings.TrimSpace(row[0])
		if c == "" {
			continue
		}
		if c == code {
			return strings.TrimSpace(row[1]), true, nil
		}
	}
	return "", false, nil
}

// Pages returns the full code-to-page mapping for report enrichment. Later
// duplicate rows overwrite earlier ones here; reports only need a best-effort
// label, not the redemption tie-break.
func (s *Source) Pages() (map[string]string, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}

	pages := make(map[string]string, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		c := strings.TrimSpace(row[0])
		if c == "" {
			continue
		}
		pages[c] = strings.TrimSpace(row[1])
	}
	return pages, nil
}

func (s *Source) readRows() ([][]string, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read catalog rows: %w", err)
	}
	return rows, nil
}

// productNames maps destination pages to the prize handed out at that station.
var productNames = map[string]string{
	"boss_ghost.html":  "Gift card",
	"baby_ghost.html":  "Snack",
	"photo_ghost.html": "Photo",
}

// ProductName returns the prize label for a destination page, or "-" for
// pages with no prize mapping.
func ProductName(page string) string {
	if name, ok := productNames[page]; ok {
		return name
	}
	return "-"
}
