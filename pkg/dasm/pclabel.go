package dasm

// GetPCLabel reports the byte offset of PC label pc, once Link has run:
// -1 if pc names a label that was declared (referenced) but never
// defined, -2 if pc is unused or out of range for this state's pclabels
// array.
func GetPCLabel(d *State, pc int) int {
	if pc >= 0 && pc < len(d.pclabels) {
		pos := d.pclabels[pc]
		if pos < 0 {
			return int(*d.cellAt(biasedPos(uint32(-pos))))
		}
		if pos > 0 {
			return -1
		}
	}
	return -2
}
