package access

import (
	"strings"

	"bar-access-app/pkg/errors"
)

// OTPCodeLength is the required passcode length
const OTPCodeLength = 6

// IsSecondFactorDetail reports whether a 403 detail text indicates that a
// second factor is needed rather than a wrong credential. The server
// provides no structured code for this, so the wording match lives in this
// one predicate and nowhere else.
func IsSecondFactorDetail(detail string) bool {
	d := strings.ToLower(detail)
	if d == "" {
		return false
	}
	return strings.Contains(d, "2fa") ||
		strings.Contains(d, "second factor") ||
		strings.Contains(d, "verify otp") ||
		strings.Contains(d, "otp first")
}

// ValidateOTPCode checks a passcode locally before any network call.
// Exactly six ASCII digits are accepted.
func ValidateOTPCode(code string) error {
	if len(code) != OTPCodeLength {
		return errors.NewAppError(errors.ErrValidationFailed,
			"verification code must be exactly 6 digits", nil)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return errors.NewAppError(errors.ErrValidationFailed,
				"verification code must contain only digits", nil)
		}
	}
	return nil
}

// FilterOTPInput normalizes raw entry text into at most six digits. Used
// by the UI to keep the code field digit-only while typing.
func FilterOTPInput(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == OTPCodeLength {
				break
			}
		}
	}
	return b.String()
}
