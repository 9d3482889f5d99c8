package utils

import (
	"context"
	"fmt"

	"github.com/meysamhadeli/codetab/constants/lipgloss"
)

// GracefulShutdown waits for the context to be cancelled, runs the given
// cleanup callbacks, and signals completion through cancel.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, cleanups ...func()) {
	<-ctx.Done()

	fmt.Println()
	fmt.Println(lipgloss.Gray.Render("Shutting down..."))

	for _, cleanup := range cleanups {
		cleanup()
	}

	cancel()
}
