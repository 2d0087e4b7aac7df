package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateStreamResponse struct {
	RoomId             string    `json:"room_id"`
	StartedAt          time.Time `json:"started_at"`
	MaxDurationSeconds int       `json:"max_duration_seconds"`
}

type StreamResponse struct {
	Id                 uuid.UUID     `json:"id"`
	RoomId             string        `json:"room_id"`
	Host               AuthorSummary `json:"host"`
	IsActive           bool          `json:"is_active"`
	StartedAt          time.Time     `json:"started_at"`
	EndedAt            *time.Time    `json:"ended_at,omitempty"`
	MaxDurationSeconds int           `json:"max_duration_seconds"`
	ViewerCount        int64         `json:"viewer_count"`
}

type ListStreamsRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type PublishSignalRequest struct {
	Type string          `json:"type" validate:"required,oneof=offer answer ice-candidate"`
	To   *uuid.UUID      `json:"to"`
	Data json.RawMessage `json:"data" validate:"required"`
}

type SignalMessageResponse struct {
	Type      string          `json:"type"`
	From      uuid.UUID       `json:"from"`
	To        *uuid.UUID      `json:"to,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type PollSignalsResponse struct {
	Messages []SignalMessageResponse `json:"messages"`
}
