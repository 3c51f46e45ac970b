package dasm

// cellAt dereferences a biased position into the section cell it names.
// Every position ever stored in a label slot or chain link was written by
// this same State, into a section whose buffer has not shrunk since, so
// the index is always in range.
func (d *State) cellAt(p biasedPos) *int32 {
	return &d.sections[pos2sec(p)].buf[pos2idx(p)]
}

// linkRef implements the REL_* reference-linking primitive:
// pl is the label slot, here is the biased position of the reference
// cell about to be written. If the label is already defined (*pl < 0),
// the reference becomes a direct back-reference to that position;
// otherwise it is prepended to the label's forward-reference chain.
func linkRef(pl *int32, cell *int32, here biasedPos) {
	n := *pl
	if n < 0 {
		*cell = -n
		return
	}
	*cell = n
	*pl = int32(here)
}

// defineLabel implements the LABEL_* definition primitive:
// it walks any existing forward-reference chain rooted at pl, rewriting
// every link to point at here, then marks the label defined. It returns
// nothing; callers still need to store the Pass-1 offset estimate into
// the label's own cell themselves (that storage isn't part of the chain
// walk, just colocated with it).
func (d *State) defineLabel(pl *int32, here biasedPos) {
	n := *pl
	for n > 0 {
		pb := d.cellAt(biasedPos(uint32(n)))
		next := *pb
		*pb = int32(here)
		n = next
	}
	*pl = -int32(here)
}
