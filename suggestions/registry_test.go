package suggestions

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meysamhadeli/codetab/project"
)

// dirResolver resolves every file to its parent directory, giving tests one
// project per directory.
type dirResolver struct{}

func (dirResolver) Resolve(fileID string) (string, error) {
	return filepath.Dir(fileID), nil
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry(clock *fakeClock) *Registry {
	return NewRegistry(dirResolver{},
		WithClock(clock.Now),
		WithLogger(log.New(io.Discard)))
}

func TestRegistry_ResolveOrCreateIsIdempotent(t *testing.T) {
	registry := newTestRegistry(newFakeClock())

	ws1, fs1, err := registry.ResolveOrCreate("/project/a.go")
	require.NoError(t, err)
	ws2, fs2, err := registry.ResolveOrCreate("/project/a.go")
	require.NoError(t, err)

	assert.Same(t, ws1, ws2, "same file must yield the same workspace")
	assert.Same(t, fs1, fs2, "same file must yield the same filespace")

	stats := registry.Stats()
	assert.Equal(t, 1, stats.Workspaces)
	assert.Equal(t, 1, stats.Filespaces)
}

func TestRegistry_FilesInSameProjectShareWorkspace(t *testing.T) {
	registry := newTestRegistry(newFakeClock())

	ws1, _, err := registry.ResolveOrCreate("/project/a.go")
	require.NoError(t, err)
	ws2, _, err := registry.ResolveOrCreate("/project/b.go")
	require.NoError(t, err)
	ws3, _, err := registry.ResolveOrCreate("/other/c.go")
	require.NoError(t, err)

	assert.Same(t, ws1, ws2)
	assert.NotSame(t, ws1, ws3)
	assert.Equal(t, 2, ws1.FilespaceCount())
}

func TestRegistry_ResolutionErrorCreatesNothing(t *testing.T) {
	resolveErr := &project.ResolutionError{FileID: "/project/a.go", Err: errors.New("boom")}
	registry := NewRegistry(&fakeResolver{err: resolveErr}, WithLogger(log.New(io.Discard)))

	_, _, err := registry.ResolveOrCreate("/project/a.go")
	require.Error(t, err)
	var re *project.ResolutionError
	assert.ErrorAs(t, err, &re)

	stats := registry.Stats()
	assert.Equal(t, 0, stats.Workspaces)
}

func TestRegistry_NoProjectFallsBackToFileAsRoot(t *testing.T) {
	registry := NewRegistry(&fakeResolver{err: project.ErrNoProject}, WithLogger(log.New(io.Discard)))

	ws, fs, err := registry.ResolveOrCreate("/scratch/lone.go")
	require.NoError(t, err)
	assert.Equal(t, "/scratch/lone.go", ws.ProjectID())
	assert.Equal(t, "/scratch/lone.go", fs.FileID())
}

func TestRegistry_ConcurrentResolveOrCreate(t *testing.T) {
	registry := newTestRegistry(newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := registry.ResolveOrCreate(fmt.Sprintf("/project/file%d.go", i%8))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stats := registry.Stats()
	assert.Equal(t, 1, stats.Workspaces)
	assert.Equal(t, 8, stats.Filespaces)
}

func TestRegistry_CleanupRemovesOnlyEntriesPastThreshold(t *testing.T) {
	clock := newFakeClock()
	registry := newTestRegistry(clock)

	_, _, err := registry.ResolveOrCreate("/old/stale.go")
	require.NoError(t, err)

	// The second workspace becomes active just inside the threshold.
	clock.Advance(2 * time.Second)
	_, _, err = registry.ResolveOrCreate("/fresh/active.go")
	require.NoError(t, err)

	// Now - IdleExpiry - 1s for the first entry, now - IdleExpiry + 1s for
	// the second.
	clock.Advance(IdleExpiry - 1*time.Second)

	removedWorkspaces, removedFilespaces := registry.Cleanup()
	assert.Equal(t, 1, removedWorkspaces)
	assert.Equal(t, 1, removedFilespaces)

	stats := registry.Stats()
	assert.Equal(t, 1, stats.Workspaces)
	assert.Equal(t, 1, stats.Filespaces)

	// The surviving entry is still reachable.
	ws, _, err := registry.ResolveOrCreate("/fresh/active.go")
	require.NoError(t, err)
	assert.Equal(t, "/fresh", ws.ProjectID())
}

func TestRegistry_CleanupSweepsIdleFilespacesInsideActiveWorkspace(t *testing.T) {
	clock := newFakeClock()
	registry := newTestRegistry(clock)

	ws, _, err := registry.ResolveOrCreate("/project/idle.go")
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, _, err = registry.ResolveOrCreate("/project/busy.go")
	require.NoError(t, err)
	require.Equal(t, 2, ws.FilespaceCount())

	// The workspace itself was touched when busy.go was created, so only
	// the idle filespace crosses the threshold.
	clock.Advance(IdleExpiry - 1*time.Second)

	removedWorkspaces, removedFilespaces := registry.Cleanup()
	assert.Equal(t, 0, removedWorkspaces)
	assert.Equal(t, 1, removedFilespaces)
	assert.Equal(t, 1, ws.FilespaceCount())
}

func TestRegistry_LookupDoesNotCreate(t *testing.T) {
	registry := newTestRegistry(newFakeClock())

	_, _, ok := registry.Lookup("/project/a.go")
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Stats().Workspaces)

	_, _, err := registry.ResolveOrCreate("/project/a.go")
	require.NoError(t, err)

	_, fs, ok := registry.Lookup("/project/a.go")
	require.True(t, ok)
	assert.Equal(t, "/project/a.go", fs.FileID())

	// A sibling file in the same project still has no filespace.
	_, _, ok = registry.Lookup("/project/b.go")
	assert.False(t, ok)
}
