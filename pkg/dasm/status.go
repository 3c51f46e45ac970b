package dasm

import "fmt"

// Status is a sticky encoder status code. Zero is StatusOK; any other
// value packs a family (identifying what went wrong) in its high byte and
// a payload -- the offending action-list index, or label id -- in its low
// 24 bits.
//
// Once a State's status goes non-OK, every later pass returns the stored
// status immediately instead of doing further work; there is no local
// recovery from a bad status, only fixing the action list/template and
// starting over.
type Status uint32

// The status families. Hosts branch on Status.Family() against these;
// the payload in the low 24 bits varies per failure.
const (
	StatusOK       Status = 0x00000000
	StatusPhase    Status = 0x02000000
	StatusMatchSec Status = 0x03000000
	StatusRangeI   Status = 0x11000000
	StatusRangeSec Status = 0x12000000
	StatusRangeLG  Status = 0x13000000
	StatusRangePC  Status = 0x14000000
	StatusRangeRel Status = 0x15000000
	StatusUndefLG  Status = 0x21000000
	StatusUndefPC  Status = 0x22000000
)

func newStatus(fam Status, payload int) Status {
	return fam | Status(payload)&0x00ffffff
}

// Family strips the payload, leaving a value that compares equal to
// exactly one of the Status constants above.
func (s Status) Family() Status { return s & 0xff000000 }

// Payload returns the action-list index or label id carried in the low
// 24 bits of a non-OK status.
func (s Status) Payload() int { return int(s & 0x00ffffff) }

// OK reports whether the status is StatusOK.
func (s Status) OK() bool { return s == StatusOK }

func (s Status) familyName() string {
	switch s.Family() {
	case StatusOK:
		return "ok"
	case StatusPhase:
		return "phase error"
	case StatusMatchSec:
		return "section mismatch"
	case StatusRangeI:
		return "immediate out of range"
	case StatusRangeSec:
		return "section index out of range"
	case StatusRangeLG:
		return "local/global label id out of range"
	case StatusRangePC:
		return "pc label id out of range"
	case StatusRangeRel:
		return "relocation displacement out of range"
	case StatusUndefLG:
		return "undefined local/global label"
	case StatusUndefPC:
		return "undefined pc label"
	default:
		return "unknown status"
	}
}

func (s Status) String() string {
	if s.OK() {
		return "ok"
	}
	return fmt.Sprintf("%s (payload=%d)", s.familyName(), s.Payload())
}
