package model

import (
	"time"

	"github.com/google/uuid"
)

// LiveStream carries a partial unique index on host_id so the database
// itself rejects a second concurrent active stream for the same host, no
// matter how the application-level check races.
type LiveStream struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HostId             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_live_streams_host_active,where:is_active"`
	RoomId             string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	IsActive           bool       `gorm:"default:true;index:idx_live_streams_active_started,priority:1"`
	StartedAt          time.Time  `gorm:"not null;index:idx_live_streams_active_started,priority:2,sort:desc"`
	EndedAt            *time.Time
	MaxDurationSeconds int        `gorm:"default:240"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

func (LiveStream) TableName() string {
	return "live_streams"
}
