package suggestions

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meysamhadeli/codetab/logger"
	"github.com/meysamhadeli/codetab/providers/contracts"
	"github.com/meysamhadeli/codetab/providers/models"
)

// Formatting carries the editor formatting parameters forwarded to the
// provider with every fetch.
type Formatting struct {
	TabSize    int
	IndentSize int
	UseTabs    bool
}

// notifyTimeout bounds the fire-and-forget accept/reject notifications.
const notifyTimeout = 10 * time.Second

// Engine is the generation controller. It orchestrates the
// cancel → snapshot → fetch → validate → commit protocol and the cycling and
// accept/reject lifecycle on top of the registry's workspaces.
//
// The realtime gate and formatting source are functions, not cached values:
// both are re-read on every use, so configuration changes take effect
// immediately.
type Engine struct {
	registry *Registry
	provider contracts.ICompletionProvider

	realtimeEnabled func() bool
	formatting      func() Formatting
	log             *log.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRealtimeGate sets the source for the "realtime suggestions enabled"
// flag. Read fresh on each call to RealtimeEnabled.
func WithRealtimeGate(gate func() bool) EngineOption {
	return func(e *Engine) {
		e.realtimeEnabled = gate
	}
}

// WithFormatting sets the source for editor formatting parameters.
func WithFormatting(formatting func() Formatting) EngineOption {
	return func(e *Engine) {
		e.formatting = formatting
	}
}

// WithEngineLogger replaces the engine's logger.
func WithEngineLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates a generation controller over the given registry and
// completion provider.
func NewEngine(registry *Registry, provider contracts.ICompletionProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:        registry,
		provider:        provider,
		realtimeEnabled: func() bool { return true },
		formatting:      func() Formatting { return Formatting{TabSize: 4, IndentSize: 4} },
		log:             logger.New("suggestions"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// RealtimeEnabled reports whether realtime suggestions are enabled, reading
// the configuration source fresh. Callers compose this with
// ShouldAutoTrigger to decide whether to fire a generation.
func (e *Engine) RealtimeEnabled() bool {
	return e.realtimeEnabled()
}

// Session resolves or creates the workspace and filespace for a file.
func (e *Engine) Session(fileID string) (*Workspace, *Filespace, error) {
	return e.registry.ResolveOrCreate(fileID)
}

// ShouldAutoTrigger reports whether a new generation is warranted for the
// given live buffer state: true when no filespace exists for the file yet,
// when no snapshot has been taken, or when the live fingerprint or cursor
// differs from the stored snapshot. Lookup only — never creates entries, and
// does not consult the realtime flag.
func (e *Engine) ShouldAutoTrigger(fileID string, lines []string, line int, col int) bool {
	_, fs, ok := e.registry.Lookup(fileID)
	if !ok {
		return true
	}
	stored, taken := fs.snapshotValue()
	if !taken {
		return true
	}
	return stored != TakeSnapshot(lines, line, col)
}

// GenerateRequest describes one generation call.
type GenerateRequest struct {
	Lines []string
	Line  int
	Col   int

	// KeepInflight skips the default cancellation of the workspace's
	// pending generations before this one starts.
	KeepInflight bool
}

// Generate runs the full generation protocol for one file:
//
//  1. cancel the workspace's in-flight requests (unless KeepInflight),
//  2. snapshot the buffer and reserve the filespace slot,
//  3. fetch candidates from the provider,
//  4. commit them only if the filespace's snapshot still matches.
//
// A result that arrives after its snapshot was superseded is silently
// dropped: Generate returns (nil, nil) and the cache is untouched. A
// provider failure propagates without mutating the candidate set; the
// snapshot reserved in step 2 stays, so auto-trigger treats an identical
// buffer as already handled — retrying is the caller's decision.
func (e *Engine) Generate(ctx context.Context, ws *Workspace, fs *Filespace, req GenerateRequest) ([]models.Candidate, error) {
	if !req.KeepInflight {
		ws.CancelInflight()
	}

	now := e.registry.now()
	ws.Touch(now)

	snapshot := TakeSnapshot(req.Lines, req.Line, req.Col)
	fs.reserve(snapshot, now)

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	handle := ws.trackRequest(cancel)
	defer ws.releaseRequest(handle)

	format := e.formatting()
	candidates, err := e.provider.FetchCompletions(fetchCtx, &models.CompletionRequest{
		FileID:               fs.FileID(),
		Content:              strings.Join(req.Lines, "\n"),
		Line:                 req.Line,
		Col:                  req.Col,
		TabSize:              format.TabSize,
		IndentSize:           format.IndentSize,
		UseTabs:              format.UseTabs,
		FilterWhitespaceOnly: true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if fetchCtx.Err() != nil {
			// Cancelled by a newer request for this workspace.
			e.log.Debug("generation superseded during fetch", "file", fs.FileID())
			return nil, nil
		}
		return nil, err
	}

	// Cooperative cancellation: even a fetch that completed successfully
	// must not commit once it has been cancelled.
	if fetchCtx.Err() != nil {
		e.log.Debug("discarding cancelled generation result", "file", fs.FileID())
		return nil, nil
	}

	if !fs.commitIf(snapshot, candidates, e.registry.now()) {
		e.log.Debug("discarding stale generation result", "file", fs.FileID())
		return nil, nil
	}

	return candidates, nil
}

// SelectNext advances the selection with wraparound. Cycling is user intent
// that supersedes any pending fetch, so the workspace's in-flight requests
// are cancelled first. Never calls the provider and never touches the
// snapshot; a no-op on sets with fewer than two candidates.
func (e *Engine) SelectNext(ws *Workspace, fs *Filespace) {
	e.cycle(ws, fs, 1)
}

// SelectPrevious retreats the selection with wraparound. See SelectNext.
func (e *Engine) SelectPrevious(ws *Workspace, fs *Filespace) {
	e.cycle(ws, fs, -1)
}

func (e *Engine) cycle(ws *Workspace, fs *Filespace, step int) {
	ws.CancelInflight()
	ws.Touch(e.registry.now())
	fs.advance(step)
}

// Accept removes the selected candidate, notifies the provider that it was
// accepted and the remaining ones rejected, resets the filespace's
// candidates, and returns the accepted candidate for the caller to apply to
// the buffer. Returns false without side effects when the set is empty or
// the selection is out of range. The notifications are fire-and-forget;
// Accept does not wait on them.
func (e *Engine) Accept(ctx context.Context, ws *Workspace, fs *Filespace) (models.Candidate, bool) {
	ws.CancelInflight()
	ws.Touch(e.registry.now())

	accepted, remaining, ok := fs.removeSelected()
	if !ok {
		return models.Candidate{}, false
	}

	e.notifyOutcome(ctx, fs.FileID(), &accepted, remaining)
	fs.resetCandidates()
	return accepted, true
}

// Reject notifies the provider that all cached candidates were rejected and
// resets the filespace's candidates. The snapshot is left in place (see
// Filespace.resetCandidates), so an unchanged buffer does not re-trigger.
func (e *Engine) Reject(ctx context.Context, ws *Workspace, fs *Filespace) {
	ws.CancelInflight()
	ws.Touch(e.registry.now())

	rejected := fs.Candidates()
	e.notifyOutcome(ctx, fs.FileID(), nil, rejected)
	fs.resetCandidates()
}

// notifyOutcome sends accept/reject telemetry to the provider in the
// background, accepted first, then the rejected batch. Failures are logged
// and swallowed: the notification is best-effort and the local cache reset
// proceeds regardless.
func (e *Engine) notifyOutcome(ctx context.Context, fileID string, accepted *models.Candidate, rejected []models.Candidate) {
	if accepted == nil && len(rejected) == 0 {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if accepted != nil {
			if err := e.provider.NotifyAccepted(notifyCtx, *accepted); err != nil {
				e.log.Debug("accepted notification failed", "file", fileID, "err", err)
			}
		}
		if len(rejected) > 0 {
			if err := e.provider.NotifyRejected(notifyCtx, rejected); err != nil {
				e.log.Debug("rejected notification failed", "file", fileID, "err", err)
			}
		}
	}()
}

// Cleanup sweeps idle entries out of the registry. See Registry.Cleanup.
func (e *Engine) Cleanup() (removedWorkspaces int, removedFilespaces int) {
	return e.registry.Cleanup()
}
