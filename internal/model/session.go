package model

import "time"

// Session is a server-side login record addressed by an opaque token. It binds
// the cookie to the roster identity established at login and is never mutated
// after creation.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
