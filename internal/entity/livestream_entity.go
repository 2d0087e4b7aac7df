package entity

import (
	"time"

	"github.com/google/uuid"
)

// LiveStream is a time-bounded broadcast slot owned by one host. At most one
// stream per host may be active at a time. Once IsActive is false the record
// is append-only history; RoomId stops resolving for signaling.
type LiveStream struct {
	Id                 uuid.UUID
	HostId             uuid.UUID
	RoomId             string
	IsActive           bool
	StartedAt          time.Time
	EndedAt            *time.Time
	MaxDurationSeconds int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Expired reports whether the stream has outlived its hard duration cap.
func (s *LiveStream) Expired(now time.Time) bool {
	return now.Sub(s.StartedAt) >= time.Duration(s.MaxDurationSeconds)*time.Second
}
