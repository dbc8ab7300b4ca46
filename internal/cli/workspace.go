package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/infra/config"
	"github.com/project-avie/avie/internal/infra/logger"
	"github.com/project-avie/avie/internal/infra/runstore"
	"github.com/project-avie/avie/internal/infra/workspacefinder"
	"github.com/project-avie/avie/internal/infra/yamlcatalog"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/ports"
)

// workspaceCtx bundles everything a subcommand needs from a located
// workspace: its config, the catalog adapters, the simulator and the run
// store. Close releases the store and the log file.
type workspaceCtx struct {
	root string
	cfg  domain.Config

	catalog ports.Catalog
	store   *runstore.Store
	sim     *mission.Simulator

	cleanups []func() error
}

func loadWorkspace(flags *rootFlags) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(flags.workspace)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	ws := &workspaceCtx{
		root:    root,
		cfg:     cfg,
		catalog: yamlcatalog.New(root, yamlcatalog.WithPaths(cfg.Paths)),
		sim:     newSimulator(cfg),
	}

	// Logging failures must never block a run.
	cleanup, _ := logger.Setup(logger.Config{
		Root:  root,
		Debug: flags.debug,
		Level: cfg.Logging.Level,
	})
	if cleanup != nil {
		ws.cleanups = append(ws.cleanups, cleanup)
	}

	store, err := runstore.New(root, cfg)
	if err != nil {
		ws.Close()
		return nil, err
	}
	ws.store = store
	ws.cleanups = append(ws.cleanups, store.Close)

	return ws, nil
}

func (ws *workspaceCtx) Close() {
	for i := len(ws.cleanups) - 1; i >= 0; i-- {
		_ = ws.cleanups[i]()
	}
	ws.cleanups = nil
}

func newSimulator(cfg domain.Config) *mission.Simulator {
	var opts []mission.Option
	if cfg.Defaults.ControlPoints > 0 {
		opts = append(opts, mission.WithControlPoints(cfg.Defaults.ControlPoints))
	}
	return mission.New(opts...)
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `avie init`): %w", wd, err)
	}
	return root, nil
}

// effectiveScenario applies the override chain: the CLI flag beats the
// case's own scenario, which beats the workspace default. The winner is
// passed to the usecase as the override, so re-resolution is harmless.
func effectiveScenario(ws *workspaceCtx, flag, caseScenario string) string {
	if flag != "" {
		return flag
	}
	if caseScenario != "" {
		return caseScenario
	}
	return ws.cfg.Defaults.Scenario
}
