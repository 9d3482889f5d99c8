package suggestions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workspace is the per-project container: the filespace map, the set of
// in-flight cancellable generation requests, and the last-activity timestamp.
// A workspace is owned exclusively by the registry and created lazily on the
// first file reference whose resolved project root is new.
type Workspace struct {
	projectID string

	mu           sync.Mutex
	filespaces   map[string]*Filespace
	inflight     map[uuid.UUID]context.CancelFunc
	lastActivity time.Time
}

func newWorkspace(projectID string, now time.Time) *Workspace {
	return &Workspace{
		projectID:    projectID,
		filespaces:   make(map[string]*Filespace),
		inflight:     make(map[uuid.UUID]context.CancelFunc),
		lastActivity: now,
	}
}

// ProjectID returns the project-root identity this workspace is keyed by.
func (w *Workspace) ProjectID() string {
	return w.projectID
}

// filespace returns the filespace for the given file, creating it on first
// reference. Idempotent: the same file always yields the same entry.
func (w *Workspace) filespace(fileID string, now time.Time) *Filespace {
	w.mu.Lock()
	defer w.mu.Unlock()
	fs, ok := w.filespaces[fileID]
	if !ok {
		fs = newFilespace(fileID, now)
		w.filespaces[fileID] = fs
	}
	return fs
}

// lookup returns the filespace for the given file without creating one.
func (w *Workspace) lookup(fileID string) (*Filespace, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fs, ok := w.filespaces[fileID]
	return fs, ok
}

// CancelInflight cancels every in-flight generation request for this
// workspace and clears the set. The cancellation domain is the whole
// project, not the single file: cycling or generating in one file cancels
// pending fetches for every file in the project. Cancellation is
// cooperative — a cancelled fetch's eventual result is still gated on the
// live snapshot before being discarded.
func (w *Workspace) CancelInflight() {
	w.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(w.inflight))
	for _, cancel := range w.inflight {
		cancels = append(cancels, cancel)
	}
	w.inflight = make(map[uuid.UUID]context.CancelFunc)
	w.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// trackRequest registers a cancellable in-flight generation and returns its
// handle id.
func (w *Workspace) trackRequest(cancel context.CancelFunc) uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := uuid.New()
	w.inflight[id] = cancel
	return id
}

// releaseRequest drops a completed request from the in-flight set. A no-op
// when the request was already cancelled and cleared.
func (w *Workspace) releaseRequest(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, id)
}

// InflightCount returns the number of in-flight generation requests.
func (w *Workspace) InflightCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inflight)
}

// FilespaceCount returns the number of cached filespaces.
func (w *Workspace) FilespaceCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.filespaces)
}

// Touch refreshes the workspace's last-activity timestamp.
func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActivity = now
}

func (w *Workspace) lastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActivity
}

// Cleanup removes filespaces whose last activity is before the cutoff and
// returns how many were removed. Advisory housekeeping only — an expired
// entry that has not been swept yet still behaves correctly.
func (w *Workspace) Cleanup(cutoff time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for fileID, fs := range w.filespaces {
		if fs.lastActive().Before(cutoff) {
			delete(w.filespaces, fileID)
			removed++
		}
	}
	return removed
}
