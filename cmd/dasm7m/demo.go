package main

import (
	"github.com/xyproto/dynasm7m/pkg/config"
	"github.com/xyproto/dynasm7m/pkg/dasm"
)

// demoActionList is what the offline DSL compiler would produce for a tiny
// leaf function that materializes a 32-bit constant and returns it:
//
//	    movw  r0, #:lower16:value
//	    movt  r0, #:upper16:value
//	    b.w   >1
//	    .align 3
//	1:  bx    lr
//
// The two IMM16 slots take the halves of the constant as Put arguments;
// the branch and label exercise the forward-reference chain and the align
// fold.
var demoActionList = dasm.ActionList{
	0xF2400000, // movw r0, #imm16
	uint32(dasm.Imm16)<<16 | 16<<5,
	0xF2C00000, // movt r0, #imm16
	uint32(dasm.Imm16)<<16 | 16<<5,
	0xF0009000, // b.w
	uint32(dasm.RelLG)<<16 | 0x8000 | 0x4000 | 1, // branch, imm10 form, forward local 1
	uint32(dasm.Align)<<16 | 7,
	uint32(dasm.LabelLG)<<16 | 11, // local 1
	0x4770BF00, // bx lr; nop
	uint32(dasm.Stop) << 16,
}

// brokenActionList references a local label that is never defined, so the
// inspect command has a failing template to show.
var brokenActionList = dasm.ActionList{
	0xF0009000, // b.w
	uint32(dasm.RelLG)<<16 | 0x8000 | 0x4000 | 2, // forward local 2, never defined
	0x4770BF00,
	uint32(dasm.Stop) << 16,
}

// putDemo runs Pass 1 for the demo (or deliberately broken) template and
// returns the state as-is, so callers can go on to Link/Encode or inspect
// it.
func putDemo(cfg *config.Config, value uint32, broken bool) (*dasm.State, error) {
	st := dasm.Init(cfg.Engine.MaxSections)
	st.Checked = cfg.Engine.Checked
	dasm.SetupGlobal(st, make([]uintptr, cfg.Engine.MaxGlobals), cfg.Engine.MaxGlobals)
	dasm.GrowPC(st, cfg.Engine.MaxPCLabels)

	if broken {
		dasm.Setup(st, brokenActionList)
		if err := dasm.Put(st, 0); err != nil {
			return st, err
		}
		return st, dasm.CheckStep(st, 0)
	}

	dasm.Setup(st, demoActionList)
	lo := int32(value & 0xFFFF)
	hi := int32(value >> 16)
	if err := dasm.Put(st, 0, lo, hi); err != nil {
		return st, err
	}
	return st, dasm.CheckStep(st, 0)
}

// assembleDemo drives all three passes over the demo template and returns
// the assembled Thumb-2 code.
func assembleDemo(cfg *config.Config, value uint32) ([]byte, *dasm.State, error) {
	st, err := putDemo(cfg, value, false)
	if err != nil {
		return nil, st, err
	}
	size, err := dasm.Link(st)
	if err != nil {
		return nil, st, err
	}
	code := make([]byte, size)
	if err := dasm.Encode(st, code); err != nil {
		return nil, st, err
	}
	return code, st, nil
}
