package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenHome screen = iota
	screenVehicles
	screenVehicleDetail
	screenMissions
	screenCases
	screenScenarioPick
	screenRunning
	screenRunDetail
	screenResults
)

type model struct {
	theme Theme
	deps  Deps

	scr    screen
	width  int
	height int

	menu      list.Model
	vehicles  list.Model
	missions  list.Model
	cases     list.Model
	scenarios list.Model
	results   list.Model

	spin spinner.Model

	startDir       string
	workspaceFound bool
	workspaceRoot  string

	wizardStep int
	wizardCase string
	running    bool
	runCh      chan runnerDoneMsg
	runStarted time.Time

	// detail is the rendered body of the current detail screen; backTo is
	// where esc returns from it.
	detail string
	backTo screen

	toast string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	items := []list.Item{
		menuItem{"Vehicles", "Airframes and their design parameters"},
		menuItem{"Missions", "Flight profiles the simulator can fly"},
		menuItem{"Cases", "Pick a case and fly it"},
		menuItem{"Results", "Saved runs and studies"},
		menuItem{"Quit", "Exit avie"},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "avie"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(true)
	menu.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		theme:     DefaultTheme(),
		deps:      deps,
		scr:       screenHome,
		menu:      menu,
		vehicles:  newList("Vehicles"),
		missions:  newList("Missions"),
		cases:     newList("Cases"),
		scenarios: newList("Scenario"),
		results:   newList("Results"),
		spin:      sp,
		startDir:  deps.StartDir,
	}

	if m.startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			m.startDir = wd
		}
	}
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}

func (m model) Init() tea.Cmd {
	return cmdRefreshWorkspace(m.deps, m.startDir)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w, h := msg.Width-4, msg.Height-10
		m.menu.SetSize(w, h)
		m.vehicles.SetSize(w, h)
		m.missions.SetSize(w, h)
		m.cases.SetSize(w, h)
		m.scenarios.SetSize(w, h)
		m.results.SetSize(w, h)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		if msg.dir != "" {
			m.startDir = msg.dir
		}
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace ready at " + msg.root
		return m, cmdRefreshWorkspace(m.deps, m.startDir)

	case vehiclesLoadedMsg:
		if msg.err != nil {
			return m.failHome(msg.err)
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, vehicleItem{ref: r})
		}
		cmd := m.vehicles.SetItems(items)
		return m, cmd

	case vehiclePreviewMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.detail = msg.preview
		m.backTo = screenVehicles
		m.scr = screenVehicleDetail
		return m, nil

	case missionsLoadedMsg:
		if msg.err != nil {
			return m.failHome(msg.err)
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, missionItem{ref: r})
		}
		cmd := m.missions.SetItems(items)
		return m, cmd

	case casesLoadedMsg:
		if msg.err != nil {
			return m.failHome(msg.err)
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, caseItem{ref: r})
		}
		cmd := m.cases.SetItems(items)
		return m, cmd

	case scenariosLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.wizardStep = 0
			m.scr = screenCases
			return m, nil
		}
		items := []list.Item{
			scenarioItem{title: "(case default)", desc: "the case's scenario, or the workspace default"},
		}
		for _, r := range msg.refs {
			desc := r.Description
			if desc == "" {
				desc = r.Path
			}
			items = append(items, scenarioItem{name: r.Name, title: r.Name, desc: desc})
		}
		cmd := m.scenarios.SetItems(items)
		return m, cmd

	case resultsLoadedMsg:
		if msg.err != nil {
			return m.failHome(msg.err)
		}
		items := make([]list.Item, 0, len(msg.rows))
		for _, r := range msg.rows {
			items = append(items, resultItem{row: r})
		}
		cmd := m.results.SetItems(items)
		return m, cmd

	case resultDetailMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.detail = msg.detail
		m.backTo = screenResults
		m.scr = screenRunDetail
		return m, nil

	case runnerDoneMsg:
		m.running = false
		m.wizardStep = 0
		m.runCh = nil
		if msg.err != nil && msg.art.Status == "" {
			// Setup failed before an artifact existed.
			m.toast = userMessage(msg.err)
			m.scr = screenCases
			return m, nil
		}
		m.detail = renderRunDetail(msg.art, msg.id)
		m.backTo = screenHome
		m.scr = screenRunDetail
		m.toast = ""
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.running {
		return m, nil
	}

	// While the user types a filter every key belongs to the list.
	if l := m.focusedList(); l != nil && l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		*l, cmd = l.Update(msg)
		return m, cmd
	}

	switch m.scr {
	case screenHome:
		switch key {
		case "q":
			return m, tea.Quit
		case "i":
			if !m.workspaceFound {
				return m, cmdInitWorkspaceHere(m.deps, m.startDir)
			}
			return m, nil
		case "enter":
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			switch it.title {
			case "Vehicles":
				return m.open(screenVehicles, cmdLoadVehicles(m.workspaceRoot))
			case "Missions":
				return m.open(screenMissions, cmdLoadMissions(m.workspaceRoot))
			case "Cases":
				return m.open(screenCases, cmdLoadCases(m.workspaceRoot))
			case "Results":
				return m.open(screenResults, cmdLoadResults(m.workspaceRoot))
			case "Quit":
				return m, tea.Quit
			}
			return m, nil
		}

	case screenVehicles, screenMissions, screenCases, screenResults:
		switch key {
		case "q", "esc", "b":
			return m.goHome()
		case "enter":
			return m.choose()
		}

	case screenScenarioPick:
		switch key {
		case "q", "esc", "b":
			m.wizardStep = 0
			m.wizardCase = ""
			m.scr = screenCases
			return m, nil
		case "enter":
			return m.choose()
		}

	case screenVehicleDetail, screenRunDetail:
		switch key {
		case "q", "esc", "b":
			m.detail = ""
			m.scr = m.backTo
			return m, nil
		}
		return m, nil

	case screenRunning:
		return m, nil
	}

	if l := m.focusedList(); l != nil {
		var cmd tea.Cmd
		*l, cmd = l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// choose acts on the selected item of the focused list.
func (m model) choose() (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenVehicles:
		if it, ok := m.vehicles.SelectedItem().(vehicleItem); ok {
			return m, cmdPreviewVehicle(m.workspaceRoot, it.ref.Name)
		}

	case screenCases:
		if it, ok := m.cases.SelectedItem().(caseItem); ok {
			m.wizardCase = it.ref.Name
			m.wizardStep = 1
			m.scr = screenScenarioPick
			m.toast = ""
			return m, cmdLoadScenarios(m.workspaceRoot)
		}

	case screenScenarioPick:
		if it, ok := m.scenarios.SelectedItem().(scenarioItem); ok {
			return m.startRun(it.name)
		}

	case screenResults:
		if it, ok := m.results.SelectedItem().(resultItem); ok {
			return m, cmdLoadResult(m.workspaceRoot, it.row.ID)
		}
	}
	return m, nil
}

func (m model) startRun(scenario string) (tea.Model, tea.Cmd) {
	m.running = true
	m.wizardStep = 2
	m.scr = screenRunning
	m.runStarted = time.Now()
	m.toast = ""

	ch, cmd := startRunAsync(m.workspaceRoot, m.wizardCase, scenario, m.deps.Logger, m.deps.Debug)
	m.runCh = ch
	return m, tea.Batch(m.spin.Tick, cmd)
}

func (m model) open(s screen, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if !m.workspaceFound {
		m.toast = "No workspace found. Press i to create one here."
		return m, nil
	}
	m.scr = s
	m.toast = ""
	return m, cmd
}

func (m model) goHome() (tea.Model, tea.Cmd) {
	m.scr = screenHome
	m.wizardStep = 0
	m.wizardCase = ""
	m.detail = ""
	m.toast = ""
	return m, nil
}

func (m model) failHome(err error) (tea.Model, tea.Cmd) {
	m.toast = userMessage(err)
	m.scr = screenHome
	return m, nil
}

func (m *model) focusedList() *list.Model {
	switch m.scr {
	case screenHome:
		return &m.menu
	case screenVehicles:
		return &m.vehicles
	case screenMissions:
		return &m.missions
	case screenCases:
		return &m.cases
	case screenScenarioPick:
		return &m.scenarios
	case screenResults:
		return &m.results
	}
	return nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("avie") + "\n" +
		m.theme.Subtitle.Render("design studies for battery-electric aircraft") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render("Workspace: " + m.workspaceRoot)
	} else {
		banner = m.theme.Warn.Render("No workspace under " + m.startDir + ". Press i to create one here.")
	}

	var toast string
	if m.toast != "" {
		toast = "\n" + m.theme.Warn.Render(clampString(m.toast, 120))
	}

	var body, help string
	switch m.scr {
	case screenHome:
		body = m.menu.View()
		help = "↑/↓ navigate • enter open • / filter • q quit"
	case screenVehicles:
		body = m.vehicles.View()
		help = "enter preview • / filter • esc back"
	case screenMissions:
		body = m.missions.View()
		help = "/ filter • esc back"
	case screenCases:
		body = m.cases.View()
		help = "enter fly • / filter • esc back"
	case screenScenarioPick:
		body = m.scenarios.View()
		help = "enter fly with this scenario • esc back"
	case screenResults:
		body = m.results.View()
		help = "enter open • / filter • esc back"
	case screenVehicleDetail, screenRunDetail:
		body = m.detail
		help = "esc back"
	case screenRunning:
		elapsed := time.Since(m.runStarted).Round(time.Second)
		body = fmt.Sprintf("%s Flying %s… (%s)", m.spin.View(), m.wizardCase, elapsed)
		help = "ctrl+c quit"
	default:
		body = "unknown state"
	}

	return wrap.Render(header + "\n" + banner + toast + "\n\n" +
		m.theme.Card.Render(body) + "\n" + m.theme.Help.Render(help))
}
