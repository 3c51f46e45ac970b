package dasm

import "testing"

// TestPutBackwardLocalMustBeDefined covers backward local references
// (encoded id+10): unlike forward locals, which may chain ahead of their
// definition, a backward reference must find its label already defined,
// or Put fails immediately with StatusRangeLG.
func TestPutBackwardLocalMustBeDefined(t *testing.T) {
	actionlist := ActionList{
		uint32(0xF0008000),
		(uint32(RelLG) << 16) | 0x8000 | 15, // backward REL_LG local 5, never defined
		uint32(Stop) << 16,
	}
	d := newState(t)
	Setup(d, actionlist)

	err := Put(d, 0)
	if err == nil {
		t.Fatalf("Put succeeded, want StatusRangeLG failure for an undefined id-15 reference")
	}
	var dasmErr *Error
	if !asError(err, &dasmErr) {
		t.Fatalf("Put error is not *Error: %v", err)
	}
	if dasmErr.Status.Family() != StatusRangeLG {
		t.Fatalf("Put error family = %v, want %v", dasmErr.Status.Family(), StatusRangeLG)
	}
}

// TestPutBackwardLocalResolvesWhenDefinedFirst covers the same encoding,
// but with the defining LABEL_LG emitted before the reference: Put must
// resolve it directly, with no error.
func TestPutBackwardLocalResolvesWhenDefinedFirst(t *testing.T) {
	actionlist := ActionList{
		(uint32(LabelLG) << 16) | 15, // LABEL_LG local 5
		uint32(0xF0008000),
		(uint32(RelLG) << 16) | 0x8000 | 15, // backward REL_LG local 5, now already defined
		uint32(Stop) << 16,
	}
	d := newState(t)
	Setup(d, actionlist)

	if err := Put(d, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := Link(d); err != nil {
		t.Fatalf("Link: %v", err)
	}
}

// TestPutLocalForwardReferenceIgnoresStaleDefinition covers per-step local
// label scoping: a local id defined in an earlier Setup/Put run must not
// be treated as already resolved in a later one -- CheckStep resets it,
// but even without CheckStep a fresh Setup call must leave no trace.
func TestPutLocalForwardReferenceIgnoresStaleDefinition(t *testing.T) {
	actionlist := ActionList{
		(uint32(LabelLG) << 16) | 11, // LABEL_LG local 1, defined immediately
		uint32(Stop) << 16,
	}
	d := newState(t)
	Setup(d, actionlist)
	if err := Put(d, 0); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if _, err := Link(d); err != nil {
		t.Fatalf("first Link: %v", err)
	}

	// Fresh run: Setup clears lglabels, so id 1 starts undefined again.
	forward := ActionList{
		uint32(0xF0008000),
		(uint32(RelLG) << 16) | 0x8000 | 1, // forward refs encode the raw local id
		uint32(0xBF00BF00),
		(uint32(LabelLG) << 16) | 11,
		uint32(Stop) << 16,
	}
	Setup(d, forward)
	if err := Put(d, 0); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	size, err := Link(d)
	if err != nil {
		t.Fatalf("second Link: %v", err)
	}
	if size != 8 {
		t.Fatalf("codesize = %d, want 8", size)
	}
}
