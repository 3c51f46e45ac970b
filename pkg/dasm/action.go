package dasm

// Action is the upper-16-bit opcode of an action word. A word whose action
// is >= MaxAction is not an opcode at all: it is an instruction literal to
// be emitted verbatim by Encode.
type Action uint32

// The action opcodes. Later passes rely on the relative ordering (e.g.
// "action >= RelPC consumes a runtime arg", "action >= VRList consumes
// two") as much as on the individual values, so the order is part of the
// action-list wire format.
const (
	Stop Action = iota
	Section
	Esc
	RelExt
	// The following actions need a stored buffer position.
	Align
	RelLG
	LabelLG
	// The following also carry a runtime argument.
	RelPC
	LabelPC
	RelAPC
	Imm
	Imm12
	Imm16
	Imm32
	ImmL
	ImmV8
	ImmShift
	// VRList carries two runtime arguments.
	VRList
	// MaxAction: any action word with an opcode >= this is an instruction
	// literal, not a tagged action.
	MaxAction
)

// MaxSecPos bounds the number of section-buffer cells a single Put call
// may append (the start index plus each action's stored arguments).
const MaxSecPos = 25

// ActionList is a flat, read-only stream of tagged action words produced
// offline by the DSL compiler this package does not implement. The upper
// 16 bits of each word are the Action; the lower 16 carry opcode-specific
// parameters (bit-field selectors, scales, label ids, section indices).
type ActionList []uint32

func actionOf(word uint32) Action { return Action(word >> 16) }

// runtimeArgs reports how many runtime (Put-call variadic) arguments the
// given action consumes.
func runtimeArgs(a Action) int {
	switch {
	case a >= VRList:
		return 2
	case a >= RelPC:
		return 1
	default:
		return 0
	}
}

// ExternResolver is the host-supplied callback consulted for a RelExt
// action. pc is the byte offset of the relocation site in the output
// buffer, idx and isAbs decode the low bits of the action word
// (relocation id, absolute vs. relative). It must return the resolved
// displacement.
type ExternResolver func(ctx *State, pc int, idx int, isAbs bool) int32
