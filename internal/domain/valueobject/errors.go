package valueobject

import "errors"

// Sentinel errors shared across the domain. Callers classify failures with
// errors.Is; messages carry the offending field via wrapping.
var (
	// ErrInvalidStatusTransition is returned when a lifecycle move is not in
	// the transition table.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrPreconditionViolated is returned when the requested operation
	// conflicts with current state (terms already exist, currency mismatch,
	// financing already attached). Not retryable.
	ErrPreconditionViolated = errors.New("precondition violated")

	// ErrInvariantBroken is returned when a mid-operation check fails; the
	// enclosing transaction must roll back.
	ErrInvariantBroken = errors.New("invariant broken")

	// ErrAmountInvalid is returned for non-positive or malformed amounts,
	// before any write happens.
	ErrAmountInvalid = errors.New("amount invalid")

	// ErrNotFound is returned when a referenced deal, terms or plan is missing.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentUpdate is returned when an optimistic write affects zero
	// rows or a conditional insert loses a race. Retryable with fresh reads.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
