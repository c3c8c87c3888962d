package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessAttempt is the mutable per-session authentication record. It is
// created when the access UI mounts, mutated only by the state machine and
// discarded when the session ends.
type AccessAttempt struct {
	SessionID    string
	Password     string
	OtpRequested bool
	OtpVerified  bool
	OtpCode      string
	FailureCount int
	StartedAt    time.Time
}

// NewAccessAttempt creates a fresh attempt record for one session
func NewAccessAttempt() *AccessAttempt {
	return &AccessAttempt{
		SessionID: uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// AccessResult is produced once per successful access call and consumed
// immediately by the renderer and destruction logic. It is never persisted.
type AccessResult struct {
	Payload            []byte
	ContentType        string
	Filename           string
	ViewsRemaining     int
	ShouldDestroy      bool
	ViewOnly           bool
	AutoRefreshSeconds int
	StorageMode        StorageMode
}
