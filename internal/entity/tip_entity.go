package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tip is a ledger row only. No charge is captured here; payment settlement
// lives outside this service.
type Tip struct {
	Id         uuid.UUID
	SenderId   uuid.UUID
	ReceiverId uuid.UUID
	PostId     *uuid.UUID
	Amount     float64
	Message    *string
	CreatedAt  time.Time
}
