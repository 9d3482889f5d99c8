package contracts

import (
	"context"

	"github.com/meysamhadeli/codetab/providers/models"
)

// ICompletionProvider is the external completion backend. FetchCompletions
// returns candidates pre-ordered by the backend; this module never re-ranks
// them. NotifyAccepted and NotifyRejected are best-effort telemetry — callers
// treat their failures as non-fatal.
type ICompletionProvider interface {
	FetchCompletions(ctx context.Context, request *models.CompletionRequest) ([]models.Candidate, error)
	NotifyAccepted(ctx context.Context, candidate models.Candidate) error
	NotifyRejected(ctx context.Context, candidates []models.Candidate) error
}
