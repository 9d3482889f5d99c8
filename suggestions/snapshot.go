// Package suggestions is the core suggestion session cache: per-project
// workspaces, per-file candidate storage, and the generation controller that
// keeps asynchronous completion fetches from committing stale results.
package suggestions

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// Snapshot identifies exactly what buffer state a set of candidates was
// computed for: a fingerprint of the full line buffer plus the cursor
// position. Snapshots are value types compared by equality; cached candidates
// are valid only while the filespace's current snapshot equals the snapshot
// they were fetched under.
type Snapshot struct {
	Fingerprint uint64
	Line        int
	Col         int
}

// TakeSnapshot fingerprints the given line buffer and cursor position.
func TakeSnapshot(lines []string, line int, col int) Snapshot {
	return Snapshot{
		Fingerprint: fingerprint(lines),
		Line:        line,
		Col:         col,
	}
}

// fingerprint hashes the full line buffer. xxh3 keeps this cheap enough to
// run on every keystroke-driven eligibility check.
func fingerprint(lines []string) uint64 {
	return xxh3.HashString(strings.Join(lines, "\n"))
}
