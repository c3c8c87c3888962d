package manager

import (
	"time"

	"bar-access-app/internal/storage"
	"bar-access-app/pkg/errors"
)

// CooldownManager defines the interface for the advisory OTP-request
// throttle. It lives entirely on the client and is trivially bypassable by
// clearing local state; no security property may depend on it. Server-side
// rate limiting remains the real bound.
type CooldownManager interface {
	// Remaining returns how long the token must still wait, 0 when the
	// action is allowed
	Remaining(token string) (time.Duration, error)

	// Record notes that the throttled action just happened for the token
	Record(token string) error

	// Reset clears the persisted timestamp for the token
	Reset(token string) error
}

// OTPCooldownManager implements CooldownManager backed by local storage
type OTPCooldownManager struct {
	db     storage.Database
	window time.Duration
	now    func() time.Time
}

// NewOTPCooldownManager creates a cooldown manager with the given window
func NewOTPCooldownManager(db storage.Database, window time.Duration) *OTPCooldownManager {
	return &OTPCooldownManager{
		db:     db,
		window: window,
		now:    time.Now,
	}
}

// Remaining returns how long the token must still wait before another OTP
// request; 0 means the action is allowed now.
func (cm *OTPCooldownManager) Remaining(token string) (time.Duration, error) {
	if cm.window <= 0 {
		return 0, nil
	}

	last, err := cm.db.GetCooldown(token)
	if err != nil {
		return 0, errors.WrapError(err, errors.ErrDatabaseError, "failed to read cooldown state")
	}
	if last.IsZero() {
		return 0, nil
	}

	elapsed := cm.now().Sub(last)
	if elapsed >= cm.window {
		return 0, nil
	}
	return cm.window - elapsed, nil
}

// Record notes that the throttled action just happened for the token
func (cm *OTPCooldownManager) Record(token string) error {
	if err := cm.db.SaveCooldown(token, cm.now()); err != nil {
		return errors.WrapError(err, errors.ErrDatabaseError, "failed to persist cooldown state")
	}
	return nil
}

// Reset clears the persisted timestamp for the token
func (cm *OTPCooldownManager) Reset(token string) error {
	if err := cm.db.ClearCooldown(token); err != nil {
		return errors.WrapError(err, errors.ErrDatabaseError, "failed to clear cooldown state")
	}
	return nil
}
