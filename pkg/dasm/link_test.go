package dasm

import "testing"

// TestLinkAlignShrink covers ALIGN's Pass-1-conservative/Pass-2-exact
// shrink: Put assumes the full mask as worst-case padding, Link subtracts
// back down to the padding actually needed once the running offset is
// known. Starting offset 0 needs 0 bytes to align up to a 4-byte (mask 3)
// boundary, so the whole reserved allowance should shrink away.
func TestLinkAlignShrink(t *testing.T) {
	actionlist := ActionList{
		(uint32(Align) << 16) | 3, // align to 4 bytes, mask=3
		uint32(Stop) << 16,
	}
	d := newState(t)
	Setup(d, actionlist)

	if err := Put(d, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	size, err := Link(d)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if size != 0 {
		t.Fatalf("codesize = %d, want 0 (offset 0 is already 4-byte aligned)", size)
	}
}

// TestLinkMultiSectionConcatenation covers two sections, each holding one
// literal instruction: Link must report their combined size, with the
// second section starting right after the first.
func TestLinkMultiSectionConcatenation(t *testing.T) {
	actionlist := ActionList{
		uint32(0x11111111),
		uint32(Stop) << 16,
	}
	d := Init(2)
	SetupGlobal(d, make([]uintptr, 1), 1)
	Setup(d, actionlist)

	if err := Put(d, 0); err != nil {
		t.Fatalf("Put (section 0): %v", err)
	}
	d.active = 1
	if err := Put(d, 0); err != nil {
		t.Fatalf("Put (section 1): %v", err)
	}

	size, err := Link(d)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if size != 8 {
		t.Fatalf("codesize = %d, want 8", size)
	}
}

// TestLinkUndefinedPCLabelFails covers Link's hard requirement that every
// referenced PC label be defined: a RelPC with no matching LabelPC must
// fail with StatusUndefPC.
func TestLinkUndefinedPCLabelFails(t *testing.T) {
	actionlist := ActionList{
		uint32(0xF0008000),
		(uint32(RelPC) << 16) | 0x8000,
		uint32(Stop) << 16,
	}
	d := newState(t)
	GrowPC(d, 4)
	Setup(d, actionlist)

	if err := Put(d, 0, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_, err := Link(d)
	if err == nil {
		t.Fatalf("Link succeeded, want StatusUndefPC failure")
	}
	var dasmErr *Error
	if !asError(err, &dasmErr) {
		t.Fatalf("Link error is not *Error: %v", err)
	}
	if dasmErr.Status.Family() != StatusUndefPC {
		t.Fatalf("Link error family = %v, want %v", dasmErr.Status.Family(), StatusUndefPC)
	}
}

// TestLinkUndefinedGlobalCollapsesToExternMarker covers a global whose
// lglabels slot sits at index >= 20, left undefined in this translation
// unit: Link must not fail outright -- it collapses the reference chain to
// a negative extern marker, which Encode later treats as an UndefLG
// failure unless the host resolves it some other way.
func TestLinkUndefinedGlobalCollapsesToExternMarker(t *testing.T) {
	actionlist := ActionList{
		uint32(0xF0008000),
		(uint32(RelLG) << 16) | 0x8000 | 30, // REL_LG global at slot 20, never defined
		uint32(Stop) << 16,
	}
	d := Init(1)
	SetupGlobal(d, make([]uintptr, 16), 16)
	Setup(d, actionlist)

	if err := Put(d, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Link must succeed outright: an undefined global id >= 20 is not a
	// Link-time error, only collapsed to a marker Encode later rejects.
	if _, err := Link(d); err != nil {
		t.Fatalf("Link: %v", err)
	}

	buf := make([]byte, d.codesize)
	err := Encode(d, buf)
	if err == nil {
		t.Fatalf("Encode succeeded, want StatusUndefLG failure")
	}
	var dasmErr *Error
	if !asError(err, &dasmErr) {
		t.Fatalf("Encode error is not *Error: %v", err)
	}
	if dasmErr.Status.Family() != StatusUndefLG {
		t.Fatalf("Encode error family = %v, want %v", dasmErr.Status.Family(), StatusUndefLG)
	}
}
