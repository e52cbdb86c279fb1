package model

import "time"

// Attempt is one recorded code submission. Rows are append-only and removed
// only by the admin bulk reset.
type Attempt struct {
	ID        int64     `json:"-"`
	StudentID string    `json:"student_id"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// UsedCode records the first successful claim of a code. At most one row per
// code ever exists; later claims never overwrite it.
type UsedCode struct {
	Code      string    `json:"code"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`

	// Product is derived at report time from the current catalog; it is not
	// stored.
	Product string `json:"product,omitempty"`
}
