package dasm

import "testing"

// newState builds a State ready to Put/Link/Encode a single template: one
// section, room for global ids up to 16, no PC labels.
func newState(t *testing.T) *State {
	t.Helper()
	d := Init(1)
	SetupGlobal(d, make([]uintptr, 16), 16)
	Setup(d, nil)
	return d
}

// asError is a small errors.As wrapper shared by the package-internal
// tests.
func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
