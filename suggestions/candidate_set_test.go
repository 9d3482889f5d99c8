package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateSet_EmptySet(t *testing.T) {
	var cs CandidateSet

	assert.Equal(t, 0, cs.Len())
	_, ok := cs.Selected()
	assert.False(t, ok)
	assert.Nil(t, cs.Candidates())

	cs.advance(1)
	assert.Equal(t, 0, cs.SelectedIndex())

	_, _, ok = cs.removeSelected()
	assert.False(t, ok)
}

func TestCandidateSet_ReplaceResetsSelection(t *testing.T) {
	var cs CandidateSet
	cs.replace(candidates("a", "b", "c"))
	cs.advance(2)
	require.Equal(t, 2, cs.SelectedIndex())

	cs.replace(candidates("x", "y"))
	assert.Equal(t, 0, cs.SelectedIndex())
	assert.Equal(t, 2, cs.Len())
}

func TestCandidateSet_AdvanceWrapsBothDirections(t *testing.T) {
	var cs CandidateSet
	cs.replace(candidates("a", "b", "c"))

	cs.advance(-1)
	assert.Equal(t, 2, cs.SelectedIndex())
	cs.advance(1)
	assert.Equal(t, 0, cs.SelectedIndex())

	// N advances return to the start.
	for i := 0; i < 3; i++ {
		cs.advance(1)
	}
	assert.Equal(t, 0, cs.SelectedIndex())
}

func TestCandidateSet_AdvanceSingleEntryIsNoOp(t *testing.T) {
	var cs CandidateSet
	cs.replace(candidates("only"))

	cs.advance(1)
	cs.advance(-1)
	assert.Equal(t, 0, cs.SelectedIndex())
}

func TestCandidateSet_RemoveSelectedReturnsRemainder(t *testing.T) {
	var cs CandidateSet
	cs.replace(candidates("a", "b", "c"))
	cs.advance(1)

	removed, remaining, ok := cs.removeSelected()
	require.True(t, ok)
	assert.Equal(t, "b", removed.Text)
	assert.Equal(t, candidates("a", "c"), remaining)

	// The set itself is untouched; the caller decides what to do next.
	assert.Equal(t, 3, cs.Len())
}

func TestCandidateSet_CandidatesReturnsCopy(t *testing.T) {
	var cs CandidateSet
	cs.replace(candidates("a", "b"))

	out := cs.Candidates()
	out[0].Text = "mutated"

	selected, ok := cs.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", selected.Text)
}
