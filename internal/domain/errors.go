package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Kinds
	ErrMsgNotFound           = "not found"
	ErrMsgInvalidState       = "invalid state"
	ErrMsgCapacityExceeded   = "quest is full"
	ErrMsgVerificationFailed = "verification failed"
	ErrMsgInsufficientFunds  = "insufficient funds"
	ErrMsgStorageConflict    = "storage conflict"
	ErrMsgForbidden          = "forbidden"
	ErrMsgInvalidInput       = "invalid input"

	// Quest errors
	ErrMsgQuestNotFound       = "quest not found"
	ErrMsgAttemptNotFound     = "quest attempt not found"
	ErrMsgQuestUnavailable    = "quest is inactive or expired"
	ErrMsgQuestNotStarted     = "quest has not started"
	ErrMsgAlreadyAccepted     = "quest already accepted"
	ErrMsgAttemptNotActive    = "quest attempt is not in progress"
	ErrMsgNothingToReview     = "quest attempt has no submission awaiting review"
	ErrMsgUnknownRequirement  = "unknown requirement type"
	ErrMsgReviewNotApplicable = "quest does not use manual review"

	// Participant errors
	ErrMsgParticipantNotFound = "participant not found"
	ErrMsgUnknownGuild        = "unknown guild"
	ErrMsgUnknownRole         = "unknown role"

	// Shop errors
	ErrMsgShopItemNotFound = "shop item not found"

	// Evidence errors
	ErrMsgEvidenceDisabled = "evidence storage is not configured"

	// Storage
	ErrMsgTxClosed = "tx is closed"
)

// Error kinds. Every error returned by a service wraps exactly one of these,
// or is an infrastructure failure.
var (
	ErrNotFound           = errors.New(ErrMsgNotFound)
	ErrInvalidState       = errors.New(ErrMsgInvalidState)
	ErrCapacityExceeded   = errors.New(ErrMsgCapacityExceeded)
	ErrVerificationFailed = errors.New(ErrMsgVerificationFailed)
	ErrInsufficientFunds  = errors.New(ErrMsgInsufficientFunds)
	ErrStorageConflict    = errors.New(ErrMsgStorageConflict)
	ErrForbidden          = errors.New(ErrMsgForbidden)
	ErrInvalidInput       = errors.New(ErrMsgInvalidInput)

	// ErrTxClosed is returned when a finished transaction is committed or rolled back again
	ErrTxClosed = errors.New(ErrMsgTxClosed)
)

// Specific errors, each wrapping its kind.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrQuestNotFound       = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgQuestNotFound)
	ErrAttemptNotFound     = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgAttemptNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgParticipantNotFound)
	ErrShopItemNotFound    = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgShopItemNotFound)

	ErrQuestFull = fmt.Errorf("%w: max participants reached", ErrCapacityExceeded)

	ErrQuestUnavailable    = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgQuestUnavailable)
	ErrQuestNotStarted     = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgQuestNotStarted)
	ErrAlreadyAccepted     = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgAlreadyAccepted)
	ErrAttemptNotActive    = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgAttemptNotActive)
	ErrNothingToReview     = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgNothingToReview)
	ErrReviewNotApplicable = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgReviewNotApplicable)

	ErrUnknownRequirement = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgUnknownRequirement)
	ErrUnknownGuild       = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgUnknownGuild)
	ErrUnknownRole        = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgUnknownRole)

	ErrEvidenceDisabled = errors.New(ErrMsgEvidenceDisabled)
)

// VerificationError reports a failed verification and carries the evaluator's outcome
type VerificationError struct {
	Outcome VerificationOutcome
}

func (e *VerificationError) Error() string {
	if e.Outcome.Detail.DistanceMeters != nil && e.Outcome.Detail.RadiusMeters != nil {
		return fmt.Sprintf("%s: %s (%.0fm away, must be within %.0fm)",
			ErrMsgVerificationFailed, e.Outcome.Detail.Reason,
			*e.Outcome.Detail.DistanceMeters, *e.Outcome.Detail.RadiusMeters)
	}
	return fmt.Sprintf("%s: %s", ErrMsgVerificationFailed, e.Outcome.Detail.Reason)
}

// Unwrap exposes the kind so errors.Is(err, ErrVerificationFailed) holds
func (e *VerificationError) Unwrap() error {
	return ErrVerificationFailed
}

// NewVerificationError wraps an unsatisfied outcome
func NewVerificationError(outcome VerificationOutcome) error {
	return &VerificationError{Outcome: outcome}
}

// ErrorKind names the category of a domain error
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindNotFound           ErrorKind = "not_found"
	KindInvalidState       ErrorKind = "invalid_state"
	KindCapacityExceeded   ErrorKind = "capacity_exceeded"
	KindVerificationFailed ErrorKind = "verification_failed"
	KindInsufficientFunds  ErrorKind = "insufficient_funds"
	KindStorageConflict    ErrorKind = "storage_conflict"
	KindForbidden          ErrorKind = "forbidden"
	KindInvalidInput       ErrorKind = "invalid_input"
	KindInternal           ErrorKind = "internal"
)

var kindOrder = []struct {
	err  error
	kind ErrorKind
}{
	{ErrNotFound, KindNotFound},
	{ErrInvalidState, KindInvalidState},
	{ErrCapacityExceeded, KindCapacityExceeded},
	{ErrVerificationFailed, KindVerificationFailed},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrStorageConflict, KindStorageConflict},
	{ErrForbidden, KindForbidden},
	{ErrInvalidInput, KindInvalidInput},
}

// KindOf classifies err. Errors wrapping no known kind are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
