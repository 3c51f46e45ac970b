package dasm

import (
	"fmt"
	"os"
)

// Link is Pass 2. It must run exactly once, after every template has been
// Put and before Encode: it rejects any PC label still undefined,
// collapses unresolved global label chains into an external-relocation
// marker, walks every section's recorded action streams to fold each
// ALIGN's conservative Pass-1 padding down to the shrinkage actually
// needed, turns every label's Pass-1 offset estimate into a final
// absolute byte offset, and concatenates the sections to report the
// total code size the host must allocate for Encode.
func Link(d *State) (int, error) {
	if !d.status.OK() {
		return 0, newError(d.status)
	}

	for pc, v := range d.pclabels {
		if v > 0 {
			d.fail(newStatus(StatusUndefPC, pc))
			return 0, newError(d.status)
		}
	}

	// Globals (id >= 20) left undefined in this translation unit: collapse
	// their reference chains to a negative marker (-idx). Encode does not
	// resolve such a marker: a REL_LG reading one fails with UndefLG.
	for idx := 20; idx < len(d.lglabels); idx++ {
		n := d.lglabels[idx]
		for n > 0 {
			pb := d.cellAt(biasedPos(uint32(n)))
			next := *pb
			*pb = int32(-idx)
			n = next
		}
	}

	ofs := int32(0)
	for secnum := range d.sections {
		sec := &d.sections[secnum]
		pos := sec2pos(secnum)
		lastpos := sec.pos

		for pos != lastpos {
			start := sec.buf[pos2idx(pos)]
			pos++
			p := d.actionlist[start:]
			pi := 0

		streamLoop:
			for {
				ins := p[pi]
				pi++
				action := actionOf(ins)
				switch action {
				case Stop, Section:
					break streamLoop
				case Esc:
					pi++
				case RelExt:
				case Align:
					o := sec.buf[pos2idx(pos)]
					pos++
					mask := int32(ins & 255)
					ofs -= (o + ofs) & mask
				case RelLG, RelPC, RelAPC:
					pos++
				case LabelLG, LabelPC:
					sec.buf[pos2idx(pos)] += ofs
					pos++
				case Imm, Imm12, Imm16, Imm32, ImmL, ImmV8, ImmShift:
					pos++
				case VRList:
					pos += 2
				}
			}
		}

		ofs += sec.ofs // next section starts right after this one
	}

	d.codesize = int(ofs)
	if Verbose {
		fmt.Fprintf(os.Stderr, "dasm: link: %d section(s), codesize %d\n", len(d.sections), d.codesize)
	}
	return d.codesize, nil
}
