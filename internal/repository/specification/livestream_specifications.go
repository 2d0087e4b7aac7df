package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByRoomId struct {
	RoomId string
}

func (s ByRoomId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_id = ?", s.RoomId)
}

type ActiveStreams struct{}

func (s ActiveStreams) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type HostedBy struct {
	HostID uuid.UUID
}

func (s HostedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("host_id = ?", s.HostID)
}

// StartedBefore selects streams whose countdown began at or before the
// cutoff; with ActiveStreams this is the sweeper's expiry predicate.
type StartedBefore struct {
	Cutoff time.Time
}

func (s StartedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("started_at <= ?", s.Cutoff)
}
