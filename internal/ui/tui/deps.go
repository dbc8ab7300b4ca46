package tui

import (
	"log/slog"

	"github.com/project-avie/avie/internal/ports"
)

// Deps is everything the app needs from the outside. StartDir anchors the
// workspace search so the TUI and the CLI agree on --workspace.
type Deps struct {
	StartDir string

	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	Logger *slog.Logger
	Debug  bool
}
