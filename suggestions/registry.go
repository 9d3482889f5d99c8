package suggestions

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meysamhadeli/codetab/logger"
	"github.com/meysamhadeli/codetab/project"
)

// IdleExpiry is how long a workspace or filespace may sit untouched before a
// cleanup sweep removes it. Expiry only bounds memory; nothing runs the sweep
// automatically — callers invoke Cleanup explicitly.
const IdleExpiry = 8 * time.Hour

// Registry is the process-wide map from project-root identity to workspace,
// lazily populated. The clock is injectable so expiry behavior is
// deterministic under test.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace

	resolver project.IProjectResolver
	clock    func() time.Time
	log      *log.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock replaces the registry's time source.
func WithClock(clock func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.clock = clock
	}
}

// WithLogger replaces the registry's logger.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = l
	}
}

// NewRegistry creates an empty registry backed by the given project-root
// resolver.
func NewRegistry(resolver project.IProjectResolver, opts ...RegistryOption) *Registry {
	r := &Registry{
		workspaces: make(map[string]*Workspace),
		resolver:   resolver,
		clock:      time.Now,
		log:        logger.New("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveOrCreate resolves the project root for the given file and returns
// the workspace and filespace for it, creating either lazily. When the
// resolver explicitly answers "no project", the file is treated as its own
// project root; any other resolution failure propagates and no entries are
// created.
func (r *Registry) ResolveOrCreate(fileID string) (*Workspace, *Filespace, error) {
	projectID, err := r.resolveProject(fileID)
	if err != nil {
		return nil, nil, err
	}

	now := r.clock()

	r.mu.Lock()
	ws, ok := r.workspaces[projectID]
	if !ok {
		ws = newWorkspace(projectID, now)
		r.workspaces[projectID] = ws
		r.log.Debug("created workspace", "project", projectID)
	}
	r.mu.Unlock()

	// Referencing a workspace counts as project activity for expiry purposes.
	ws.Touch(now)
	return ws, ws.filespace(fileID, now), nil
}

// Lookup returns the workspace and filespace for the given file without
// creating anything.
func (r *Registry) Lookup(fileID string) (*Workspace, *Filespace, bool) {
	projectID, err := r.resolveProject(fileID)
	if err != nil {
		return nil, nil, false
	}

	r.mu.Lock()
	ws, ok := r.workspaces[projectID]
	r.mu.Unlock()
	if !ok {
		return nil, nil, false
	}

	fs, ok := ws.lookup(fileID)
	if !ok {
		return nil, nil, false
	}
	return ws, fs, true
}

func (r *Registry) resolveProject(fileID string) (string, error) {
	projectID, err := r.resolver.Resolve(fileID)
	if err != nil {
		if errors.Is(err, project.ErrNoProject) {
			// No project context: the file stands as its own root.
			return fileID, nil
		}
		return "", err
	}
	return projectID, nil
}

// Cleanup sweeps idle filespaces out of every workspace, then removes
// workspaces that are themselves idle past the threshold. Returns the number
// of removed workspaces and filespaces.
func (r *Registry) Cleanup() (removedWorkspaces int, removedFilespaces int) {
	cutoff := r.clock().Add(-IdleExpiry)

	r.mu.Lock()
	defer r.mu.Unlock()

	for projectID, ws := range r.workspaces {
		removedFilespaces += ws.Cleanup(cutoff)
		if ws.lastActive().Before(cutoff) {
			delete(r.workspaces, projectID)
			removedWorkspaces++
		}
	}

	if removedWorkspaces > 0 || removedFilespaces > 0 {
		r.log.Info("cleaned up idle suggestion entries",
			"workspaces", removedWorkspaces, "filespaces", removedFilespaces)
	}
	return removedWorkspaces, removedFilespaces
}

// RegistryStats summarizes the registry's current contents.
type RegistryStats struct {
	Workspaces int
	Filespaces int
	Inflight   int
}

// Stats returns counts of workspaces, filespaces, and in-flight requests.
func (r *Registry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := RegistryStats{Workspaces: len(r.workspaces)}
	for _, ws := range r.workspaces {
		stats.Filespaces += ws.FilespaceCount()
		stats.Inflight += ws.InflightCount()
	}
	return stats
}

func (r *Registry) now() time.Time {
	return r.clock()
}
