package dasm

// CheckStep is the optional inter-step consistency check. A host
// that drives a State through isolated steps -- each step Put-ing a handful
// of templates that are meant to form a self-contained unit -- can call
// CheckStep between steps to catch two classes of mistake early, before
// they turn into a confusing Link/Encode failure:
//
//   - a local label (id 1..9) was referenced but never defined within the
//     step that just finished. Locals are scoped per step, so CheckStep
//     also resets every local slot to 0 once it is done checking them,
//     ready for the next step to reuse ids 1..9 for something unrelated.
//   - the step left the active section somewhere other than secmatch, when
//     the caller passes secmatch >= 0.
//
// Either violation latches a sticky status (UndefLG or MatchSec) exactly
// like a Put/Link/Encode failure would.
func CheckStep(d *State, secmatch int) error {
	if d.status.OK() {
		for i := 1; i <= 9 && i < len(d.lglabels); i++ {
			if d.lglabels[i] > 0 {
				d.fail(newStatus(StatusUndefLG, i))
				break
			}
			d.lglabels[i] = 0
		}
	}
	if d.status.OK() && secmatch >= 0 && d.active != secmatch {
		d.fail(newStatus(StatusMatchSec, d.active))
	}
	if !d.status.OK() {
		return newError(d.status)
	}
	return nil
}
