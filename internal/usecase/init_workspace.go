package usecase

import (
	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(root string, name string, force bool) error {
	return uc.initializer.Init(domain.WorkspaceSpec{Root: root, Name: name}, force)
}
