package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Interaction is the audit row written for every assistant reply.
type Interaction struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	SessionID   string    `json:"session_id,omitempty"`
	UserMessage string    `json:"user_message"`
	Reply       string    `json:"reply"`
	Mode        string    `json:"mode"` // "live" or "demo"
	Model       string    `json:"model,omitempty"`
	Status      string    `json:"status"` // "completed" or "failed"
	ErrorKind   string    `json:"error_kind,omitempty"`
}
