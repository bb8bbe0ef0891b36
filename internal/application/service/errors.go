package service

import "errors"

// Engine sentinel errors. Handlers map these onto HTTP-level apperror codes;
// callers match them with errors.Is.
var (
	// ErrInvalidAmount is returned for a non-positive tender amount or a
	// zero line quantity.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidDetails is returned when the type-specific detail variant
	// of a payment entry is missing or malformed.
	ErrInvalidDetails = errors.New("missing or invalid tender details")

	// ErrAmountExceeded is returned when admitting an entry would push the
	// ledger total past the outstanding amount.
	ErrAmountExceeded = errors.New("total paid would exceed outstanding amount")

	// ErrAuthorizationRequired is returned when a discount entry has no
	// verified OTP authorization for its attempt.
	ErrAuthorizationRequired = errors.New("discount requires a verified approval")

	// ErrOtpRejected is returned when the candidate code does not match the
	// challenge. The caller may request a fresh code and retry.
	ErrOtpRejected = errors.New("approval code rejected")

	// ErrOtpExpired is returned when the challenge's validity window has
	// passed.
	ErrOtpExpired = errors.New("approval code expired")

	// ErrChannelUnavailable is returned when no approver contact is
	// configured for the tenant.
	ErrChannelUnavailable = errors.New("no approver channel configured")

	// ErrExhaustedRetries is returned when random-code numbering could not
	// find a free code within the retry budget.
	ErrExhaustedRetries = errors.New("exhausted numbering retries")
)
