package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_EqualForIdenticalState(t *testing.T) {
	lines := []string{"package main", "", "func main() {}"}

	a := TakeSnapshot(lines, 2, 14)
	b := TakeSnapshot([]string{"package main", "", "func main() {}"}, 2, 14)

	assert.Equal(t, a, b)
}

func TestSnapshot_DiffersOnContentChange(t *testing.T) {
	a := TakeSnapshot([]string{"package main"}, 0, 12)
	b := TakeSnapshot([]string{"package main", ""}, 0, 12)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
}

func TestSnapshot_DiffersOnCursorChange(t *testing.T) {
	lines := []string{"package main"}

	a := TakeSnapshot(lines, 0, 12)
	b := TakeSnapshot(lines, 0, 11)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a.Fingerprint, b.Fingerprint, "fingerprint covers content only")
}

func TestSnapshot_LineJoiningIsNotAmbiguous(t *testing.T) {
	// Two different buffers must not collapse into the same fingerprint.
	a := TakeSnapshot([]string{"ab", "c"}, 0, 0)
	b := TakeSnapshot([]string{"a", "bc"}, 0, 0)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
}
