package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/ghosthunt/internal/model"
)

// LedgerStore owns the attempts and used_codes tables. Attempts are the
// per-student submission log the quota check counts; used_codes holds the
// first successful claim of each code.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// CountAttempts returns how many attempts the student has recorded across all
// codes.
func (s *LedgerStore) CountAttempts(studentID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM attempts WHERE student_id = ?`, studentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

// GetUsedCode returns the claim record for a code, or nil if unclaimed.
func (s *LedgerStore) GetUsedCode(code string) (*model.UsedCode, error) {
	row := s.db.QueryRow(
		`SELECT code, student_id, name, timestamp FROM used_codes WHERE code = ?`,
		code,
	)
	var u model.UsedCode
	err := row.Scan(&u.Code, &u.StudentID, &u.Name, &u.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get used code: %w", err)
	}
	return &u, nil
}

// Record logs one attempt and claims the code for the student if nobody has
// claimed it yet. Both writes happen in one transaction so the quota count
// never drifts from the claim records.
func (s *LedgerStore) Record(studentID, name, code string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin record: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO attempts (student_id, code) VALUES (?, ?)`,
		studentID, code,
	); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	// First claimant wins; a repeat claim by the same student leaves the
	// original row untouched.
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO used_codes (code, student_id, name) VALUES (?, ?, ?)`,
		code, studentID, name,
	); err != nil {
		return fmt.Errorf("insert used code: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// ListAttempts returns all attempts, newest first.
func (s *LedgerStore) ListAttempts() ([]model.Attempt, error) {
	rows, err := s.db.Query(
		`SELECT id, student_id, code, timestamp FROM attempts ORDER BY timestamp DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Code, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

// ListUsedCodes returns all claim records, newest first.
func (s *LedgerStore) ListUsedCodes() ([]model.UsedCode, error) {
	rows, err := s.db.Query(
		`SELECT code, student_id, name, timestamp FROM used_codes ORDER BY timestamp DESC, code DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list used codes: %w", err)
	}
	defer rows.Close()

	var used []model.UsedCode
	for rows.Next() {
		var u model.UsedCode
		if err := rows.Scan(&u.Code, &u.StudentID, &u.Name, &u.Timestamp); err != nil {
			return nil, fmt.Errorf("scan used code: %w", err)
		}
		used = append(used, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate used codes: %w", err)
	}
	return used, nil
}

func (s *LedgerStore) ResetAttempts() error {
	if _, err := s.db.Exec(`DELETE FROM attempts`); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}

func (s *LedgerStore) ResetUsedCodes() error {
	if _, err := s.db.Exec(`DELETE FROM used_codes`); err != nil {
		return fmt.Errorf("reset used codes: %w", err)
	}
	return nil
}

// DeleteUsedCode removes one claim record and reports whether a row existed.
func (s *LedgerStore) DeleteUsedCode(code string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM used_codes WHERE code = ?`, code)
	if err != nil {
		return false, fmt.Errorf("delete used code: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return count > 0, nil
}
