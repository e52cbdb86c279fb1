// Package roster loads the member spreadsheet into the database and keeps it
// in sync when the file changes on disk.
package roster

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dukerupert/ghosthunt/internal/model"
	"github.com/dukerupert/ghosthunt/internal/store"
)

// ParseFile reads the roster workbook. Row 1 is the header; rows missing
// either the name (column A) or the student ID (column B) are skipped.
func ParseFile(path string) ([]model.Member, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read roster rows: %w", err)
	}

	var members []model.Member
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		sid := strings.TrimSpace(row[1])
		if name == "" || sid == "" {
			continue
		}
		members = append(members, model.Member{Name: name, StudentID: sid})
	}
	return members, nil
}

// Syncer replaces the members table with the current spreadsheet contents.
// Both the file watcher and the admin reload endpoint call it.
type Syncer struct {
	path    string
	members *store.MemberStore
	logger  *slog.Logger
}

func NewSyncer(path string, members *store.MemberStore, logger *slog.Logger) *Syncer {
	return &Syncer{path: path, members: members, logger: logger}
}

// Reload parses the spreadsheet and swaps the roster in one transaction,
// returning how many members were loaded.
func (s *Syncer) Reload() (int, error) {
	members, err := ParseFile(s.path)
	if err != nil {
		return 0, err
	}
	if err := s.members.ReplaceAll(members); err != nil {
		return 0, err
	}
	s.logger.Info("roster reloaded", "count", len(members))
	return len(members), nil
}
