package dasm

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"
)

// nopInstr is the Thumb-2 32-bit NOP.W encoding used to pad ALIGN gaps.
const nopInstr uint32 = 0xf3af8000

// baseAddr is the address global-label slots are resolved against: the
// first byte of the output buffer, which for a JIT host is also where the
// code will execute from.
func baseAddr(buf []byte) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

func wordAt(buf []byte, cell int) uint32 {
	return binary.NativeEndian.Uint32(buf[cell*4:])
}

func setWordAt(buf []byte, cell int, v uint32) {
	binary.NativeEndian.PutUint32(buf[cell*4:], v)
}

func orWordAt(buf []byte, cell int, v uint32) {
	setWordAt(buf, cell, wordAt(buf, cell)|v)
}

// Encode is Pass 3. buffer must be exactly as long as the size Link
// reported; Encode fills it with the emitted Thumb-2 half-words, resolves
// every relocation, writes global label addresses into the host's
// globals table, and applies the little-endian half-word swap to every
// 32-bit instruction it commits.
func Encode(d *State, buffer []byte) error {
	if !d.status.OK() {
		return newError(d.status)
	}
	if len(buffer) != d.codesize {
		e := wrapError(newStatus(StatusPhase, 0), nil)
		d.fail(e.Status)
		return e
	}

	cell := 0 // next free 32-bit cell, i.e. (cp - base)/4

	swapPrev := func() {
		if cell != 0 {
			setWordAt(buffer, cell-1, swapHalfword(d.endian, wordAt(buffer, cell-1)))
		}
	}

	for secnum := range d.sections {
		sec := &d.sections[secnum]
		endIdx := pos2idx(sec.pos)
		i := 0

		for i < endIdx {
			start := sec.buf[i]
			i++
			p := d.actionlist[start:]
			pi := 0

		streamLoop:
			for {
				ins := p[pi]
				pi++
				action := actionOf(ins)

				var n, n2 int32
				if action >= Align && action < MaxAction {
					n = sec.buf[i]
					i++
				}
				if action >= VRList && action < MaxAction {
					n2 = sec.buf[i]
					i++
				}

				switch action {
				case Stop, Section:
					break streamLoop

				case Esc:
					swapPrev()
					setWordAt(buffer, cell, p[pi])
					pi++
					cell++

				case RelExt:
					isAbs := ins&2048 == 0
					idx := int(ins & 2047)
					if d.Extern != nil {
						n = d.Extern(d, cell*4, idx, isAbs)
					}
					if err := d.patchRel(buffer, &cell, n, ins, int(start)+pi-1); err != nil {
						return err
					}

				case Align:
					mask := int(ins & 255)
					for (cell*4)&mask != 0 {
						swapPrev()
						setWordAt(buffer, cell, nopInstr)
						cell++
					}

				case RelLG:
					if d.Checked && n < 0 {
						return d.failEncode(StatusUndefLG, int(start)+pi-1)
					}
					fallthrough
				case RelPC:
					if action == RelPC && d.Checked && n < 0 {
						return d.failEncode(StatusUndefPC, int(start)+pi-1)
					}
					n = *d.cellAt(biasedPos(uint32(n))) - int32(cell*4)
					if err := d.patchRel(buffer, &cell, n, ins, int(start)+pi-1); err != nil {
						return err
					}

				case LabelLG:
					// Global ids are encoded from 20 up; the host's slots
					// array starts at its first global, so the bias folds
					// away here.
					id := ins & 2047
					if id >= 20 {
						d.globals[id-20] = baseAddr(buffer) + uintptr(n)
					}

				case LabelPC:
					// no emission

				case Imm:
					scale := (ins >> 10) & 31
					if ins&0x8000 != 0 {
						off := (ins >> 10) & 0x1F
						if off&0x10 != 0 {
							n += -int32(off & 0x0F)
						} else {
							n += int32(off & 0x0F)
						}
						scale = 0
					}
					bits := (ins >> 5) & 31
					orWordAt(buffer, cell-1, (uint32(n>>scale)&((1<<bits)-1))<<(ins&31))

				case Imm12:
					v := imm12(uint32(n))
					word := wordAt(buffer, cell-1) | uint32(v)
					setWordAt(buffer, cell-1, word)
					if word == 0xFFFFFFFF {
						return d.failEncode(StatusRangeI, int(start)+pi-1)
					}

				case Imm16:
					orWordAt(buffer, cell-1,
						(uint32(n)&0xFF)|(((uint32(n)>>8)&0x7)<<12)|(((uint32(n)>>11)&0x1)<<26)|(((uint32(n)>>12)&0xF)<<16))

				case Imm32:
					orWordAt(buffer, cell-1, uint32(n))

				case ImmL, ImmV8:
					d.immLPatch(buffer, cell-1, n)

				case ImmShift:
					orWordAt(buffer, cell-1, uint32(ins&0xFFFF)<<(uint32(n)&31))

				case VRList:
					count := n2 + 1 - n
					if ins&1 == 0 {
						orWordAt(buffer, cell-1, ((uint32(n)&31)>>1)<<12+(uint32(n)&1)<<22+uint32(count))
					} else {
						orWordAt(buffer, cell-1, (uint32(n)&15)<<12+((uint32(n)&31)>>4)<<22+uint32(count)*2+0x100)
					}

				case RelAPC:
					n -= int32(cell*4) - 4
					if err := d.branchPatch(buffer, cell-1, n, ins, int(start)+pi-1); err != nil {
						return err
					}

				default: // instruction literal
					swapPrev()
					setWordAt(buffer, cell, ins)
					cell++
				}
			}
		}
	}

	swapPrev()

	if Verbose {
		fmt.Fprintf(os.Stderr, "dasm: encode: emitted %d bytes (codesize %d)\n", cell*4, d.codesize)
	}

	if cell*4 != d.codesize {
		e := wrapError(newStatus(StatusPhase, 0), nil)
		d.fail(e.Status)
		return e
	}
	return nil
}

// patchRel resolves the shared REL_LG/REL_PC/REL_EXT target dispatch: a
// branch, a VFP vload (imm8:'00'), an ADR-style split immediate, or a
// generic imm-L load/store offset.
func (d *State) patchRel(buffer []byte, cell *int, n int32, ins uint32, actionIdx int) error {
	switch {
	case ins&32768 != 0: // branch
		if d.Checked && !(n&1 == 0 && -16777216 <= n && n < 16777216) {
			return d.failEncode(StatusRangeRel, actionIdx)
		}
		return d.branchPatch(buffer, *cell-1, n, ins, actionIdx)

	case ins&16384 != 0: // VFP vload, imm8:'00'
		n /= 4

	case ins&8192 != 0: // ADR
		if d.Checked && !(n&1 == 0 && -4096 < n && n < 4096) {
			return d.failEncode(StatusRangeRel, actionIdx)
		}
		word := wordAt(buffer, *cell-1)
		if n < 0 {
			word |= 0x00A00000
			n = -n
		}
		word |= (uint32(n) & 0xFF) | (((uint32(n) >> 8) & 0x7) << 12) | (((uint32(n) >> 11) & 0x1) << 26)
		setWordAt(buffer, *cell-1, word)
		return nil
	}

	if d.Checked && !(n&3 == 0 && -4096 <= n && n < 4096) {
		return d.failEncode(StatusRangeRel, actionIdx)
	}
	d.immLPatch(buffer, *cell-1, n)
	return nil
}

// immLPatch packs a signed 12-bit magnitude-plus-U-bit load/store offset
// into cp[-1]: bit 23 is the U(p) bit, the low 12 bits are the magnitude.
func (d *State) immLPatch(buffer []byte, cell int, n int32) {
	if n >= 0 {
		orWordAt(buffer, cell, 0x00800000|uint32(n))
	} else {
		orWordAt(buffer, cell, uint32(-n))
	}
}

// branchPatch packs a signed branch displacement into the shared
// T3/T4-style S:imm/J1:J2 fields, reconstructing J1/J2 from S/I1/I2 per
// I = NOT(J XOR S) for the 24-bit (BL/B.W) form, or packing J1/J2
// directly for the 20-bit conditional-branch form.
func (d *State) branchPatch(buffer []byte, cell int, n int32, ins uint32, actionIdx int) error {
	isimm10 := ins&16384 != 0

	var lo, hi int32
	if isimm10 {
		lo, hi = -16777216, 16777216
	} else {
		lo, hi = -1048576, 1048576
	}
	if d.Checked && !(n&1 == 0 && lo <= n && n <= hi) {
		return d.failEncode(StatusRangeRel, actionIdx)
	}

	var sBit uint32
	if n < 0 {
		sBit = 1
	}
	imm11 := uint32(n>>1) & 0x7FF

	var immrMask uint32
	if isimm10 {
		immrMask = 0x3FF
	} else {
		immrMask = 0x3F
	}
	immr := (uint32(n>>12) & immrMask) << 16

	orWordAt(buffer, cell, imm11|immr|(sBit<<26))

	if isimm10 {
		i1 := (uint32(n>>1) >> 22) & 1
		i2 := (uint32(n>>1) >> 21) & 1
		j1 := (^(sBit ^ i1) & 1) << 13
		j2 := (^(sBit ^ i2) & 1) << 11
		orWordAt(buffer, cell, j1|j2)
	} else {
		j1 := ((uint32(n>>1) >> 18) & 1) << 13
		j2 := ((uint32(n>>1) >> 19) & 1) << 11
		orWordAt(buffer, cell, j1|j2)
	}
	return nil
}

func (d *State) failEncode(fam Status, payload int) error {
	d.fail(newStatus(fam, payload))
	return newError(d.status)
}
