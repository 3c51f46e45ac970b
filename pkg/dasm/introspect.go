package dasm

// SectionInfo is a read-only snapshot of one section's bookkeeping, for
// hosts that want to show what a State has recorded so far (the inspect
// tooling uses this to debug a template that fails Link or Encode).
type SectionInfo struct {
	Index int   // section index
	Cells int   // cells recorded by Put so far
	Ofs   int32 // accumulated byte-offset estimate
}

// SectionInfos snapshots every section's current bookkeeping.
func (d *State) SectionInfos() []SectionInfo {
	infos := make([]SectionInfo, len(d.sections))
	for i := range d.sections {
		infos[i] = SectionInfo{
			Index: i,
			Cells: pos2idx(d.sections[i].pos),
			Ofs:   d.sections[i].ofs,
		}
	}
	return infos
}

// LGLabelSlots returns a copy of the local/global label slots. Slot values
// follow the chain encoding: 0 untouched, positive a forward-reference
// chain head, negative a defined label.
func (d *State) LGLabelSlots() []int32 {
	out := make([]int32, len(d.lglabels))
	copy(out, d.lglabels)
	return out
}

// PCLabelSlots returns a copy of the PC label slots, same encoding as
// LGLabelSlots.
func (d *State) PCLabelSlots() []int32 {
	out := make([]int32, len(d.pclabels))
	copy(out, d.pclabels)
	return out
}

// ActiveSection returns the index of the section the next Put will append
// to.
func (d *State) ActiveSection() int { return d.active }

// CodeSize returns the total byte size Link computed, or 0 before Link
// has run.
func (d *State) CodeSize() int { return d.codesize }
