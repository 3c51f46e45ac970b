package dasm

import "fmt"

// Error is returned by Link and Encode (and stored, sticky, on State) when
// a pass fails. It carries the engine's own coordinate system -- a status
// family plus the action-list index or label id that triggered it --
// rather than a source location, since the action list has no source text
// of its own; the upstream DSL compiler that produced it is expected to
// map the index back to something a human can read.
type Error struct {
	Status  Status
	Wrapped error // non-nil only when Error wraps a lower-level failure
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("dasm: %s: %v", e.Status, e.Wrapped)
	}
	return fmt.Sprintf("dasm: %s", e.Status)
}

// Unwrap supports errors.Is/errors.As so a host can recognize a wrapped
// cause even after it has passed through Error.
func (e *Error) Unwrap() error { return e.Wrapped }

// Report renders a longer, human-facing description of the failure,
// naming the family and pointing at the action-list index or label id
// responsible.
func (e *Error) Report() string {
	switch e.Status.Family() {
	case StatusRangeI, StatusRangeSec, StatusRangeLG, StatusRangePC, StatusRangeRel:
		return fmt.Sprintf("dasm: %s at action-list index %d", e.Status.familyName(), e.Status.Payload())
	case StatusUndefLG, StatusUndefPC:
		return fmt.Sprintf("dasm: %s, label id or action-list index %d", e.Status.familyName(), e.Status.Payload())
	default:
		return e.Error()
	}
}

func newError(s Status) *Error { return &Error{Status: s} }

// wrapError returns err unchanged if it is already a *Error (no
// double-wrapping), otherwise wraps it with the given status.
func wrapError(s Status, err error) *Error {
	if err == nil {
		return newError(s)
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Status: s, Wrapped: err}
}
