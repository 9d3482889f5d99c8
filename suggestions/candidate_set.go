package suggestions

import (
	"github.com/meysamhadeli/codetab/providers/models"
)

// CandidateSet holds the ordered candidates for one filespace together with
// the index of the currently selected one. The set is replaced wholesale on a
// successful generation; accept removes the selected entry; nothing else
// mutates it in place. Methods are not synchronized — callers hold the owning
// filespace's lock.
type CandidateSet struct {
	candidates []models.Candidate
	selected   int
}

// Len returns the number of candidates.
func (cs *CandidateSet) Len() int {
	return len(cs.candidates)
}

// SelectedIndex returns the current selection index. Meaningless when the
// set is empty.
func (cs *CandidateSet) SelectedIndex() int {
	return cs.selected
}

// Selected returns the currently selected candidate, or false when the set
// is empty or the index is out of range.
func (cs *CandidateSet) Selected() (models.Candidate, bool) {
	if cs.selected < 0 || cs.selected >= len(cs.candidates) {
		return models.Candidate{}, false
	}
	return cs.candidates[cs.selected], true
}

// Candidates returns a copy of the candidate list.
func (cs *CandidateSet) Candidates() []models.Candidate {
	if len(cs.candidates) == 0 {
		return nil
	}
	out := make([]models.Candidate, len(cs.candidates))
	copy(out, cs.candidates)
	return out
}

// replace swaps in a new candidate list and resets the selection to the
// first entry. The whole-slice swap keeps readers from ever observing a
// partially updated list.
func (cs *CandidateSet) replace(candidates []models.Candidate) {
	cs.candidates = candidates
	cs.selected = 0
}

// advance moves the selection by step with wraparound. Sets with fewer than
// two candidates are left untouched.
func (cs *CandidateSet) advance(step int) {
	n := len(cs.candidates)
	if n < 2 {
		return
	}
	cs.selected = ((cs.selected+step)%n + n) % n
}

// removeSelected removes the selected candidate and returns it together with
// a copy of the remaining ones. Returns false when the set is empty or the
// index is out of range.
func (cs *CandidateSet) removeSelected() (models.Candidate, []models.Candidate, bool) {
	accepted, ok := cs.Selected()
	if !ok {
		return models.Candidate{}, nil, false
	}

	remaining := make([]models.Candidate, 0, len(cs.candidates)-1)
	for i, candidate := range cs.candidates {
		if i == cs.selected {
			continue
		}
		remaining = append(remaining, candidate)
	}
	return accepted, remaining, true
}

// reset clears the set and the selection index.
func (cs *CandidateSet) reset() {
	cs.candidates = nil
	cs.selected = 0
}
