package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	SignalTypeOffer        = "offer"
	SignalTypeAnswer       = "answer"
	SignalTypeIceCandidate = "ice-candidate"
)

// SignalMessage is one handshake message parked in a room mailbox. From is
// always the authenticated caller; Timestamp is assigned by the relay in
// milliseconds and never trusted from the client.
type SignalMessage struct {
	Type      string          `json:"type"`
	From      uuid.UUID       `json:"from"`
	To        *uuid.UUID      `json:"to,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// ValidSignalType reports whether t belongs to the closed handshake set.
func ValidSignalType(t string) bool {
	switch t {
	case SignalTypeOffer, SignalTypeAnswer, SignalTypeIceCandidate:
		return true
	}
	return false
}
