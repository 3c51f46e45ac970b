package dasm

// Put is Pass 1: it interprets the action stream starting at start,
// consuming args in order for whichever actions need a runtime operand,
// recording everything the section buffer needs to remember until Link
// and Encode, linking label references into their chains, and
// accumulating a per-section byte-offset estimate.
//
// It returns once it reaches STOP or SECTION. A single call may append at
// most MaxSecPos cells to the active section's buffer.
func Put(d *State, start int32, args ...int32) error {
	sec := &d.sections[d.active]
	sec.ensureCapacity(d.active)

	pos := sec.pos
	ofs := sec.ofs

	startIdx := pos2idx(pos)
	sec.buf[startIdx] = start
	pos++

	p := d.actionlist[start:]
	pi := 0
	argi := 0
	nextArg := func() int32 {
		v := args[argi]
		argi++
		return v
	}
	actionIndex := func() int { return int(start) + pi - 1 }

	for {
		ins := p[pi]
		pi++
		action := actionOf(ins)

		if action >= MaxAction {
			ofs += 4
			continue
		}

		var n, n2 int32
		if action >= RelPC {
			n = nextArg()
		}
		if action >= VRList {
			n2 = nextArg()
		}

		switch action {
		case Stop:
			sec.pos, sec.ofs = pos, ofs
			return nil

		case Section:
			secIdx := int(ins & 255)
			if d.Checked && secIdx >= len(d.sections) {
				d.fail(newStatus(StatusRangeSec, actionIndex()))
				sec.pos, sec.ofs = pos, ofs
				return newError(d.status)
			}
			d.active = secIdx
			sec.pos, sec.ofs = pos, ofs
			return nil

		case Esc:
			pi++ // the next action-list word is a literal, emitted as-is in Encode
			ofs += 4

		case RelExt:
			// No Pass-1 storage; resolved entirely in Encode via Extern.

		case Align:
			ofs += int32(ins & 255)
			sec.buf[pos2idx(pos)] = ofs
			pos++

		case RelLG:
			// Forward local references encode the raw id 1..9; backward
			// locals and definitions encode id+10; globals encode 20 and
			// up. Subtracting the bias maps all of them onto the same
			// lglabels slot per local id.
			idx := int(ins&2047) - 10
			if idx >= 0 {
				// Backward local or global reference.
				if d.Checked {
					if idx >= len(d.lglabels) {
						d.fail(newStatus(StatusRangeLG, actionIndex()))
						sec.pos, sec.ofs = pos, ofs
						return newError(d.status)
					}
					if idx < 10 && d.lglabels[idx] >= 0 {
						// A backward local must already be defined.
						d.fail(newStatus(StatusRangeLG, actionIndex()))
						sec.pos, sec.ofs = pos, ofs
						return newError(d.status)
					}
				}
				cell := &sec.buf[pos2idx(pos)]
				linkRef(&d.lglabels[idx], cell, pos)
			} else {
				// Forward local: scoped to the current step. A definition
				// left behind by an earlier step is stale, so start a
				// fresh chain instead of resolving against it.
				pl := &d.lglabels[idx+10]
				m := *pl
				if m < 0 {
					m = 0
				}
				sec.buf[pos2idx(pos)] = m
				*pl = int32(pos)
			}
			pos++

		case RelPC:
			if d.Checked && (n < 0 || int(n) >= len(d.pclabels)) {
				d.fail(newStatus(StatusRangePC, actionIndex()))
				sec.pos, sec.ofs = pos, ofs
				return newError(d.status)
			}
			pl := &d.pclabels[n]
			cell := &sec.buf[pos2idx(pos)]
			linkRef(pl, cell, pos)
			pos++

		case LabelLG:
			idx := int(ins&2047) - 10
			if d.Checked && (idx < 0 || idx >= len(d.lglabels)) {
				d.fail(newStatus(StatusRangeLG, actionIndex()))
				sec.pos, sec.ofs = pos, ofs
				return newError(d.status)
			}
			d.defineLabel(&d.lglabels[idx], pos)
			sec.buf[pos2idx(pos)] = ofs
			pos++

		case LabelPC:
			if d.Checked && (n < 0 || int(n) >= len(d.pclabels)) {
				d.fail(newStatus(StatusRangePC, actionIndex()))
				sec.pos, sec.ofs = pos, ofs
				return newError(d.status)
			}
			d.defineLabel(&d.pclabels[n], pos)
			sec.buf[pos2idx(pos)] = ofs
			pos++

		case Imm, Imm16:
			if d.Checked {
				// Bits 10..14 of the action word give the pre-shift (the
				// operand's required low-zero bits), bits 5..9 the payload
				// bit count, bit 15 signed vs unsigned.
				preshift := (ins >> 10) & 31
				bitcount := (ins >> 5) & 31
				if n&((1<<preshift)-1) != 0 {
					d.fail(newStatus(StatusRangeI, actionIndex()))
					sec.pos, sec.ofs = pos, ofs
					return newError(d.status)
				}
				if ins&0x8000 != 0 {
					if (n+(1<<(bitcount-1)))>>bitcount != 0 {
						d.fail(newStatus(StatusRangeI, actionIndex()))
						sec.pos, sec.ofs = pos, ofs
						return newError(d.status)
					}
				} else if n>>bitcount != 0 {
					d.fail(newStatus(StatusRangeI, actionIndex()))
					sec.pos, sec.ofs = pos, ofs
					return newError(d.status)
				}
			}
			sec.buf[pos2idx(pos)] = n
			pos++

		case Imm32:
			sec.buf[pos2idx(pos)] = n
			pos++

		case ImmV8:
			if d.Checked && n&3 != 0 {
				d.fail(newStatus(StatusRangeI, actionIndex()))
				sec.pos, sec.ofs = pos, ofs
				return newError(d.status)
			}
			n >>= 2
			fallthrough

		case ImmL:
			if d.Checked {
				shift := (ins >> 5) & 31
				var inRange bool
				if n >= 0 {
					inRange = n>>shift == 0
				} else {
					inRange = (-n)>>shift == 0
				}
				if !inRange {
					d.fail(newStatus(StatusRangeI, actionIndex()))
					sec.pos, sec.ofs = pos, ofs
					return newError(d.status)
				}
			}
			sec.buf[pos2idx(pos)] = n
			pos++

		case Imm12:
			if d.Checked && imm12(uint32(n)) == -1 {
				d.fail(newStatus(StatusRangeI, actionIndex()))
				sec.pos, sec.ofs = pos, ofs
				return newError(d.status)
			}
			sec.buf[pos2idx(pos)] = n
			pos++

		case RelAPC, ImmShift:
			sec.buf[pos2idx(pos)] = n
			pos++

		case VRList:
			if d.Checked && !(n >= 0 && n < 31 && n2 >= 0 && n2 < 31) {
				d.fail(newStatus(StatusRangeI, actionIndex()))
				sec.pos, sec.ofs = pos, ofs
				return newError(d.status)
			}
			sec.buf[pos2idx(pos)] = n
			pos++
			sec.buf[pos2idx(pos)] = n2
			pos++
		}
	}
}
