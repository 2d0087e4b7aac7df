package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTipRequest struct {
	ReceiverId uuid.UUID  `json:"receiver_id" validate:"required"`
	PostId     *uuid.UUID `json:"post_id"`
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	Message    *string    `json:"message" validate:"omitempty,max=300"`
}

type TipResponse struct {
	Id         uuid.UUID  `json:"id"`
	SenderId   uuid.UUID  `json:"sender_id"`
	ReceiverId uuid.UUID  `json:"receiver_id"`
	PostId     *uuid.UUID `json:"post_id,omitempty"`
	Amount     float64    `json:"amount"`
	Message    *string    `json:"message,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type LeaderboardEntry struct {
	User  AuthorSummary `json:"user"`
	Total float64       `json:"total"`
}
