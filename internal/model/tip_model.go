package model

import (
	"time"

	"github.com/google/uuid"
)

type Tip struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SenderId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReceiverId uuid.UUID  `gorm:"type:uuid;not null;index:idx_tips_receiver_created,priority:1"`
	PostId     *uuid.UUID `gorm:"type:uuid;index"`
	Amount     float64    `gorm:"type:numeric(10,2);not null"`
	Message    *string    `gorm:"type:varchar(280)"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index:idx_tips_receiver_created,priority:2,sort:desc"`
}

func (Tip) TableName() string {
	return "tips"
}
