package access

import (
	"context"
	"fmt"

	"bar-access-app/internal/api"
	"bar-access-app/internal/models"
	"bar-access-app/pkg/errors"
	"bar-access-app/pkg/logger"
)

// State is the single tagged state of an access session. The ordered
// authentication steps move through these values; impossible combinations
// (verified but never requested, granted while denied) cannot be expressed.
type State string

const (
	StateIdle          State = "idle"
	StatePasswordEntry State = "password_entry"
	StateRequesting    State = "requesting"
	StateGranted       State = "granted"
	StateDenied        State = "denied"
	StateNotFound      State = "not_found"
	StateOtpRequired   State = "otp_required"
	StateOtpPending    State = "otp_pending"
	StateOtpRequesting State = "otp_requesting"
	StateOtpGranted    State = "otp_granted"
	StateOtpDenied     State = "otp_denied"
)

// StateMachine drives the ordered authentication steps for one share token.
// It must be driven from the UI event loop: calls are not concurrency-safe,
// matching the single-in-flight-request model of the client.
type StateMachine struct {
	client  api.Client
	token   string
	state   State
	attempt *models.AccessAttempt
	otpInfo *api.OTPRequestInfo

	// destroyObserved latches once the server signals last-view
	// consumption; no further access call may be issued for this token.
	destroyObserved bool

	logger *logger.Logger
}

// NewStateMachine creates a session state machine for the given token
func NewStateMachine(client api.Client, token string) *StateMachine {
	sm := &StateMachine{
		client:  client,
		token:   token,
		state:   StatePasswordEntry,
		attempt: models.NewAccessAttempt(),
		logger:  logger.NewWithComponent("access"),
	}
	sm.logger.InfoWithFields("Access session started", sm.logFields())
	return sm
}

// logFields returns the identifying fields attached to every session log line
func (sm *StateMachine) logFields() map[string]interface{} {
	return map[string]interface{}{
		"session_id":   sm.attempt.SessionID,
		"token_prefix": logger.MaskToken(sm.token),
	}
}

// State returns the current session state
func (sm *StateMachine) State() State {
	return sm.state
}

// Token returns the share token this session is bound to
func (sm *StateMachine) Token() string {
	return sm.token
}

// Attempt exposes the per-session authentication record
func (sm *StateMachine) Attempt() *models.AccessAttempt {
	return sm.attempt
}

// OTPInfo returns the server's last OTP-request reply, if any. MaxAttempts
// in it is for display only and is never enforced locally.
func (sm *StateMachine) OTPInfo() *api.OTPRequestInfo {
	return sm.otpInfo
}

// DestroyObserved reports whether the server has signaled destruction
func (sm *StateMachine) DestroyObserved() bool {
	return sm.destroyObserved
}

// Terminal reports whether the session can make no further progress
func (sm *StateMachine) Terminal() bool {
	return sm.state == StateNotFound || sm.destroyObserved
}

// CanSubmit reports whether a password submission is currently allowed.
// A granted session may submit again: each access spends a view, and auto
// refresh or the user re-unlocking within the view limit both re-issue the
// call. Only NotFound and an observed destroy signal close the session.
func (sm *StateMachine) CanSubmit() bool {
	if sm.Terminal() {
		return false
	}
	switch sm.state {
	case StatePasswordEntry, StateDenied, StateGranted, StateOtpGranted, StateIdle:
		return true
	default:
		return false
	}
}

// Submit issues the access call with the given optional password.
//
// A 404 moves the session to NotFound, which is terminal. A 403 is split by
// inspecting the server's detail text: a second-factor phrasing moves to
// OtpRequired, anything else to Denied (wrong password or view limit
// exhausted). Transport failures leave the session where it was so the user
// may retry manually.
func (sm *StateMachine) Submit(ctx context.Context, password string) (*models.AccessResult, error) {
	if sm.destroyObserved {
		return nil, errors.NewAppError(errors.ErrInvalidState,
			"container was destroyed; no further access is possible this session", nil)
	}
	if !sm.CanSubmit() {
		return nil, errors.NewAppError(errors.ErrInvalidState,
			fmt.Sprintf("access request not allowed in state %s", sm.state), nil)
	}

	previous := sm.state
	sm.state = StateRequesting
	sm.attempt.Password = password

	result, err := sm.client.AccessShare(ctx, sm.token, password)
	if err != nil {
		return nil, sm.handleAccessFailure(previous, err)
	}

	sm.state = StateGranted
	if result.ShouldDestroy {
		sm.destroyObserved = true
		sm.logger.InfoWithFields("Destruction signal observed", sm.logFields())
	}
	return result, nil
}

// handleAccessFailure classifies an access error and applies the
// corresponding transition.
func (sm *StateMachine) handleAccessFailure(previous State, err error) error {
	appErr := errors.ClassifyError(err)

	switch appErr.Code {
	case errors.ErrNotFound:
		sm.state = StateNotFound
		return appErr

	case errors.ErrAccessDenied:
		if !sm.attempt.OtpVerified && IsSecondFactorDetail(appErr.Detail) {
			sm.state = StateOtpRequired
			sm.logger.InfoWithFields("Second factor required", sm.logFields())
			return errors.NewAccessError(errors.ErrOtpRequired,
				"second factor required for this container", appErr.Detail)
		}
		sm.state = StateDenied
		sm.attempt.FailureCount++
		return appErr

	default:
		// Transport or server failure: no protocol progress was made
		sm.state = previous
		return appErr
	}
}

// RequestOTP triggers passcode delivery. It is an explicit user action from
// the OtpRequired state; resending from OtpPending or after a rejected code
// is allowed, bounded only by server-side rate limiting.
func (sm *StateMachine) RequestOTP(ctx context.Context) (*api.OTPRequestInfo, error) {
	switch sm.state {
	case StateOtpRequired, StateOtpPending, StateOtpDenied:
	default:
		return nil, errors.NewAppError(errors.ErrInvalidState,
			fmt.Sprintf("OTP request not allowed in state %s", sm.state), nil)
	}

	info, err := sm.client.RequestOTP(ctx, sm.token)
	if err != nil {
		appErr := errors.ClassifyError(err)
		if appErr.Code == errors.ErrNotFound {
			sm.state = StateNotFound
		}
		return nil, appErr
	}

	sm.state = StateOtpPending
	sm.attempt.OtpRequested = true
	sm.otpInfo = info
	return info, nil
}

// VerifyOTP validates the passcode locally and submits it. A successful
// verification unlocks a subsequent Submit without requiring OTP again for
// the rest of this session.
func (sm *StateMachine) VerifyOTP(ctx context.Context, code string) error {
	switch sm.state {
	case StateOtpPending, StateOtpDenied:
	default:
		return errors.NewAppError(errors.ErrInvalidState,
			fmt.Sprintf("OTP verification not allowed in state %s", sm.state), nil)
	}

	if err := ValidateOTPCode(code); err != nil {
		return err
	}

	previous := sm.state
	sm.state = StateOtpRequesting

	if err := sm.client.VerifyOTP(ctx, sm.token, code); err != nil {
		appErr := errors.ClassifyError(err)
		switch appErr.Code {
		case errors.ErrOtpRejected:
			sm.state = StateOtpDenied
		case errors.ErrNotFound:
			sm.state = StateNotFound
		default:
			sm.state = previous
		}
		return appErr
	}

	sm.state = StateOtpGranted
	sm.attempt.OtpVerified = true
	sm.attempt.OtpCode = code
	return nil
}
