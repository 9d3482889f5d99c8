package suggestions

import (
	"sync"
	"time"

	"github.com/meysamhadeli/codetab/providers/models"
)

// Filespace is the per-file suggestion cache: the candidate set, the snapshot
// the candidates were fetched under, and the last-activity timestamp used by
// the expiry sweep. A filespace is owned exclusively by its workspace and is
// created lazily on first reference.
type Filespace struct {
	fileID string

	mu           sync.RWMutex
	set          CandidateSet
	snapshot     *Snapshot
	lastActivity time.Time
}

func newFilespace(fileID string, now time.Time) *Filespace {
	return &Filespace{
		fileID:       fileID,
		lastActivity: now,
	}
}

// FileID returns the file identity this filespace caches suggestions for.
func (f *Filespace) FileID() string {
	return f.fileID
}

// Candidates returns a copy of the currently cached candidates.
func (f *Filespace) Candidates() []models.Candidate {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set.Candidates()
}

// CandidateCount returns the number of cached candidates.
func (f *Filespace) CandidateCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set.Len()
}

// SelectedIndex returns the current selection index.
func (f *Filespace) SelectedIndex() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set.SelectedIndex()
}

// Selected returns the currently selected candidate, or false when none is
// cached.
func (f *Filespace) Selected() (models.Candidate, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set.Selected()
}

// snapshotValue returns the stored snapshot and whether one has been taken.
func (f *Filespace) snapshotValue() (Snapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.snapshot == nil {
		return Snapshot{}, false
	}
	return *f.snapshot, true
}

// reserve writes the snapshot for an in-flight generation before the fetch
// starts. A concurrent generation for the same file overwrites it, which is
// how the earlier fetch later detects it was superseded.
func (f *Filespace) reserve(snapshot Snapshot, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := snapshot
	f.snapshot = &s
	f.lastActivity = now
}

// commitIf stores the fetched candidates only when the live snapshot still
// equals the one the fetch was issued under. Returns false when the result
// is stale and was discarded.
func (f *Filespace) commitIf(snapshot Snapshot, candidates []models.Candidate, now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshot == nil || *f.snapshot != snapshot {
		return false
	}
	f.set.replace(candidates)
	f.lastActivity = now
	return true
}

// advance moves the selection with wraparound.
func (f *Filespace) advance(step int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set.advance(step)
}

// removeSelected removes and returns the selected candidate plus a copy of
// the remaining ones.
func (f *Filespace) removeSelected() (models.Candidate, []models.Candidate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set.removeSelected()
}

// resetCandidates clears the candidate set and selection. The snapshot is
// intentionally left in place: an unchanged buffer stays "seen" and is not
// re-fetched by auto-trigger.
func (f *Filespace) resetCandidates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set.reset()
}

func (f *Filespace) lastActive() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastActivity
}
