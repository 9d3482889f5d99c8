// Package project resolves the project root a file belongs to. The registry
// keys workspaces by the identity this package returns.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// ErrNoProject is the explicit "no project context found" answer. Callers may
// fall back to treating the file as its own project root on this error and
// only on this error; any other failure must propagate.
var ErrNoProject = errors.New("no project context found")

// ResolutionError indicates that project-root resolution failed for a reason
// other than the file simply not belonging to a project.
type ResolutionError struct {
	FileID string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve project root for '%s': %v", e.FileID, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// IProjectResolver resolves a file identity to its project-root identity.
type IProjectResolver interface {
	Resolve(fileID string) (string, error)
}

const resolveCacheTTL = 1 * time.Hour

// defaultMarkers are checked in order at each directory level.
var defaultMarkers = []string{".git", "go.mod", "package.json", "Cargo.toml", "pyproject.toml", ".hg"}

// MarkerResolver walks parent directories looking for well-known project
// markers. Resolved roots are cached with a TTL keyed by the file's directory.
type MarkerResolver struct {
	markers []string
	cache   *ttlcache.Cache[string, string]
}

// NewMarkerResolver creates a resolver with the default marker set.
func NewMarkerResolver() *MarkerResolver {
	c := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](resolveCacheTTL),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go c.Start()
	return &MarkerResolver{
		markers: defaultMarkers,
		cache:   c,
	}
}

// Close stops the cache expiration loop.
func (r *MarkerResolver) Close() {
	r.cache.Stop()
}

// Resolve returns the project-root identity for the given file identity.
// File identities may be plain paths or file:// URIs; the returned root keeps
// the same form as the input.
func (r *MarkerResolver) Resolve(fileID string) (string, error) {
	path, hadScheme := stripFileScheme(fileID)
	if path == "" {
		return "", &ResolutionError{FileID: fileID, Err: errors.New("empty file identity")}
	}

	dir := filepath.Dir(path)

	if item := r.cache.Get(dir); item != nil {
		return withFileScheme(item.Value(), hadScheme), nil
	}

	root, err := r.walkUp(dir)
	if err != nil {
		if errors.Is(err, ErrNoProject) {
			return "", err
		}
		return "", &ResolutionError{FileID: fileID, Err: err}
	}

	r.cache.Set(dir, root, ttlcache.DefaultTTL)
	return withFileScheme(root, hadScheme), nil
}

func (r *MarkerResolver) walkUp(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range r.markers {
			if _, statErr := os.Stat(filepath.Join(current, marker)); statErr == nil {
				return current, nil
			} else if !os.IsNotExist(statErr) {
				return "", statErr
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNoProject
		}
		current = parent
	}
}

func stripFileScheme(fileID string) (string, bool) {
	if strings.HasPrefix(fileID, "file://") {
		return strings.TrimPrefix(fileID, "file://"), true
	}
	return fileID, false
}

func withFileScheme(path string, hadScheme bool) string {
	if hadScheme {
		return "file://" + path
	}
	return path
}
