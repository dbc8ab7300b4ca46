package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/infra/config"
	"github.com/project-avie/avie/internal/infra/runstore"
	"github.com/project-avie/avie/internal/infra/yamlcatalog"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/ports"
	"github.com/project-avie/avie/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps, dir string) tea.Cmd {
	return func() tea.Msg {
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return workspaceRefreshedMsg{err: fmt.Errorf("getwd: %w", err)}
			}
			dir = wd
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{dir: dir, err: errors.New("WorkspaceLocator is nil")}
		}

		root, err := deps.WorkspaceLocator.FindRoot(dir)
		if err != nil {
			return workspaceRefreshedMsg{dir: dir, err: err}
		}
		return workspaceRefreshedMsg{dir: dir, found: true, root: root}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, true)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

// openCatalog builds a catalog honoring the workspace's configured paths.
func openCatalog(root string) (ports.Catalog, domain.Config, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, cfg, err
	}
	return yamlcatalog.New(root, yamlcatalog.WithPaths(cfg.Paths)), cfg, nil
}

func cmdLoadVehicles(root string) tea.Cmd {
	return func() tea.Msg {
		cat, _, err := openCatalog(root)
		if err != nil {
			return vehiclesLoadedMsg{err: err}
		}
		refs, err := cat.ListVehicles()
		return vehiclesLoadedMsg{refs: refs, err: err}
	}
}

func cmdPreviewVehicle(root, name string) tea.Cmd {
	return func() tea.Msg {
		cat, _, err := openCatalog(root)
		if err != nil {
			return vehiclePreviewMsg{name: name, err: err}
		}
		v, err := cat.LoadVehicle(name)
		if err != nil {
			return vehiclePreviewMsg{name: name, err: err}
		}
		return vehiclePreviewMsg{name: name, preview: renderVehiclePreview(v)}
	}
}

func cmdLoadMissions(root string) tea.Cmd {
	return func() tea.Msg {
		cat, _, err := openCatalog(root)
		if err != nil {
			return missionsLoadedMsg{err: err}
		}
		refs, err := cat.ListMissions()
		return missionsLoadedMsg{refs: refs, err: err}
	}
}

func cmdLoadCases(root string) tea.Cmd {
	return func() tea.Msg {
		cat, _, err := openCatalog(root)
		if err != nil {
			return casesLoadedMsg{err: err}
		}
		refs, err := cat.ListCases()
		return casesLoadedMsg{refs: refs, err: err}
	}
}

func cmdLoadScenarios(root string) tea.Cmd {
	return func() tea.Msg {
		cat, _, err := openCatalog(root)
		if err != nil {
			return scenariosLoadedMsg{err: err}
		}
		refs, err := cat.ListScenarios()
		return scenariosLoadedMsg{refs: refs, err: err}
	}
}

func cmdLoadResults(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(root)
		if err != nil {
			return resultsLoadedMsg{err: err}
		}
		store, err := runstore.New(root, cfg)
		if err != nil {
			return resultsLoadedMsg{err: err}
		}
		defer func() { _ = store.Close() }()

		rows, err := store.List(domain.RunFilter{Limit: 50})
		return resultsLoadedMsg{rows: rows, err: err}
	}
}

func cmdLoadResult(root, id string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(root)
		if err != nil {
			return resultDetailMsg{id: id, err: err}
		}
		store, err := runstore.New(root, cfg)
		if err != nil {
			return resultDetailMsg{id: id, err: err}
		}
		defer func() { _ = store.Close() }()

		art, err := store.LoadRun(id)
		if err != nil {
			// A kind mismatch means the id names a study artifact.
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				return resultDetailMsg{id: id, err: err}
			}
			st, stErr := store.LoadStudy(id)
			if stErr != nil {
				return resultDetailMsg{id: id, err: stErr}
			}
			return resultDetailMsg{id: id, detail: renderStudyDetail(st, st.ID)}
		}
		return resultDetailMsg{id: id, detail: renderRunDetail(art, art.ID)}
	}
}

func listenRunner(ch <-chan runnerDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return runnerDoneMsg{err: errors.New("runner channel closed")}
		}
		return msg
	}
}

// startRunAsync flies a case off the UI goroutine. The returned command
// blocks on the channel so bubbletea delivers the result as a message.
func startRunAsync(root, caseName, scenario string, log *slog.Logger, debug bool) (chan runnerDoneMsg, tea.Cmd) {
	ch := make(chan runnerDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		log.Info("run.start",
			"workspace", root,
			"case", caseName,
			"scenario", scenario,
			"debug", debug,
		)

		cfg, err := config.Load(root)
		if err != nil {
			log.Error("run.load_config.failed", "err", err)
			ch <- runnerDoneMsg{err: err}
			return
		}

		cat := yamlcatalog.New(root, yamlcatalog.WithPaths(cfg.Paths))

		// The workspace default applies only when neither the wizard pick
		// nor the case names a scenario.
		if scenario == "" && cfg.Defaults.Scenario != "" {
			if cs, cerr := cat.LoadCase(caseName); cerr == nil && cs.Scenario == "" {
				scenario = cfg.Defaults.Scenario
			}
		}

		var simOpts []mission.Option
		if cfg.Defaults.ControlPoints > 0 {
			simOpts = append(simOpts, mission.WithControlPoints(cfg.Defaults.ControlPoints))
		}
		sim := mission.New(simOpts...)

		store, err := runstore.New(root, cfg)
		if err != nil {
			log.Error("run.open_store.failed", "err", err)
			ch <- runnerDoneMsg{err: err}
			return
		}
		defer func() { _ = store.Close() }()

		uc := usecase.NewRunCase(cat, sim, store)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		art, id, execErr := uc.Execute(ctx, caseName, scenario)

		if execErr != nil {
			log.Error("run.failed", "err", execErr, "saved_id", id)
		} else {
			log.Info("run.ok", "saved_id", id, "status", string(art.Status))
		}

		for _, c := range art.Checks {
			if !c.Passed {
				log.Warn("check.failed", "name", c.Name, "message", c.Message)
			} else if debug {
				log.Debug("check.ok", "name", c.Name, "message", c.Message)
			}
		}

		ch <- runnerDoneMsg{art: art, id: id, err: execErr}
	}()

	return ch, listenRunner(ch)
}
