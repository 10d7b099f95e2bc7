package styles

import (
	"context"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// EnableVirtualTerminal turns on escape sequence interpretation for stdout on
// consoles that need it. It is a no-op elsewhere and never fails the caller:
// problems are logged at debug level and an inert restore func is returned.
func EnableVirtualTerminal(ctx context.Context, logger *slog.Logger) func() {
	restore, err := termenv.EnableVirtualTerminalProcessing(termenv.NewOutput(os.Stdout))
	if err != nil {
		logger.DebugContext(ctx, "virtual terminal processing unavailable", "error", err)
		return func() {}
	}
	return func() {
		if err := restore(); err != nil {
			logger.DebugContext(ctx, "restore console mode", "error", err)
		}
	}
}
