package model

// Member is one roster row. The roster is rebuilt wholesale on every sync,
// so members carry no timestamps.
type Member struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
}
