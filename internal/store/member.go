package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/ghosthunt/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

// ReplaceAll rebuilds the members table from the given rows in a single
// transaction, so concurrent login lookups see either the old roster or the
// new one in full.
func (s *MemberStore) ReplaceAll(members []model.Member) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM members`); err != nil {
		return fmt.Errorf("clear members: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO members (name, student_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.Exec(m.Name, m.StudentID); err != nil {
			return fmt.Errorf("insert member %q: %w", m.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// FindByNameAndID returns the member matching both fields exactly, or nil.
func (s *MemberStore) FindByNameAndID(name, studentID string) (*model.Member, error) {
	row := s.db.QueryRow(
		`SELECT id, name, student_id FROM members WHERE name = ? AND student_id = ?`,
		name, studentID,
	)
	var m model.Member
	err := row.Scan(&m.ID, &m.Name, &m.StudentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

func (s *MemberStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}
