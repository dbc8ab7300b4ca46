package ports

import "github.com/project-avie/avie/internal/domain"

// WorkspaceInitializer scaffolds a new workspace on disk.
type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}

// WorkspaceLocator finds an avie workspace root starting from an arbitrary
// directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}
