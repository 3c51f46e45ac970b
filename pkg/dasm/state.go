package dasm

import (
	"fmt"
	"os"
)

// Verbose gates the engine's own diagnostic tracing: a package-level flag
// checked by fmt.Fprintf(os.Stderr, ...) call sites rather than a logging
// dependency the embedding host would have to coordinate with.
var Verbose = false

// biasedPos is a (section<<24 | index) handle: a single integer naming a
// cell inside some section's buffer that survives that buffer being
// grown and reallocated underneath it. It is the in-state analogue of a
// raw pointer into a resizable array.
type biasedPos uint32

func sec2pos(sec int) biasedPos     { return biasedPos(sec) << 24 }
func pos2sec(p biasedPos) int       { return int(p >> 24) }
func pos2idx(p biasedPos) int       { return int(p & 0x00ffffff) }
func posBias(p biasedPos) biasedPos { return p &^ 0x00ffffff }

// section is one contiguous 32-bit cell stream. Each Put call appends the
// action-list start index it was given, followed by whatever operands the
// actions it interprets need to remember until Link/Encode.
type section struct {
	buf  []int32   // the cell buffer; grown monotonically during Pass 1
	pos  biasedPos // next free cell, biased by this section's index
	epos biasedPos // pos at/after which the buffer must grow before writing
	ofs  int32     // accumulated byte-offset estimate (Pass 1); Link reads it but keeps its own running offset
}

// ensureCapacity grows the section's buffer so a single Put call can
// safely append up to MaxSecPos cells without a second check: grow once
// per Put, sized generously.
func (s *section) ensureCapacity(secIdx int) {
	if s.pos < s.epos {
		return
	}
	grown := make([]int32, len(s.buf)+2*MaxSecPos)
	copy(grown, s.buf)
	s.buf = grown
	s.epos = sec2pos(secIdx) + biasedPos(len(grown)-MaxSecPos)
	if Verbose {
		fmt.Fprintf(os.Stderr, "dasm: section %d buffer grown to %d cells\n", secIdx, len(grown))
	}
}

// State holds everything one encoding run needs: the action list it is
// interpreting, every section's cell buffer, the local/global and PC
// label chains, the host's globals table, and the sticky status.
//
// A State is created with Init, bound to an action list with Setup (which
// may be called repeatedly to re-run the same State against a fresh
// template set), driven through Put/Link/Encode, and released with Free.
type State struct {
	sections   []section
	active     int
	actionlist ActionList

	lglabels []int32
	pclabels []int32
	globals  []uintptr // host slots, unbiased: global id 20 is slot 0 (see Encode)

	codesize int
	status   Status

	endian endianness

	// Checked gates range and undefined-label checking. Defaults on;
	// turning it off is purely a release-build optimization and never
	// changes which bytes get emitted.
	Checked bool

	// Extern resolves REL_EXT relocations. Nil unless the host sets it.
	Extern ExternResolver
}

// Init constructs a State able to hold maxsection sections and probes the
// host's endianness once (the engine is driven by a JIT, so "target" and
// "host" endianness are the same machine).
func Init(maxsection int) *State {
	d := &State{
		sections: make([]section, maxsection),
		endian:   hostEndianness(),
		Checked:  true,
	}
	for i := range d.sections {
		d.sections[i] = section{}
	}
	return d
}

// SetupGlobal installs a host-owned slots array written with resolved
// global-label addresses during Encode, and sizes the local/global label
// array to hold maxgl global ids plus the 10 reserved local/bias slots.
// It must be called before Setup.
func SetupGlobal(d *State, slots []uintptr, maxgl int) {
	d.globals = slots
	if need := 10 + maxgl; len(d.lglabels) < need {
		d.lglabels = make([]int32, need)
	}
}

// GrowPC ensures the PC label array holds at least maxpc entries,
// zeroing any newly added slots. It may be called again later, after
// Setup, if the host discovers it needs more PC labels.
func GrowPC(d *State, maxpc int) {
	if len(d.pclabels) >= maxpc {
		return
	}
	grown := make([]int32, maxpc)
	copy(grown, d.pclabels)
	d.pclabels = grown
}

// Setup binds an action list to the state, resets every label array and
// section, and clears the sticky status. Call it once per fresh encoding
// run; GrowPC/SetupGlobal may be called again afterwards if needed.
func Setup(d *State, actionlist ActionList) {
	d.actionlist = actionlist
	d.status = StatusOK
	d.active = 0
	for i := range d.lglabels {
		d.lglabels[i] = 0
	}
	for i := range d.pclabels {
		d.pclabels[i] = 0
	}
	for i := range d.sections {
		d.sections[i].pos = sec2pos(i)
		d.sections[i].ofs = 0
	}
}

// Free releases the state's buffers. This just drops references for the
// garbage collector, but the method is kept so a host that pools States
// has one place to do it.
func (d *State) Free() {
	d.sections = nil
	d.lglabels = nil
	d.pclabels = nil
	d.globals = nil
	d.actionlist = nil
}

// Status returns the state's current sticky status.
func (d *State) Status() Status { return d.status }

func (d *State) fail(s Status) {
	if d.status.OK() {
		d.status = s
	}
}
