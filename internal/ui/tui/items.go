package tui

import (
	"fmt"

	"github.com/project-avie/avie/internal/domain"
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type vehicleItem struct {
	ref domain.VehicleRef
}

func (i vehicleItem) Title() string { return i.ref.Name }
func (i vehicleItem) Description() string {
	if i.ref.Description != "" {
		return i.ref.Description
	}
	return i.ref.Path
}
func (i vehicleItem) FilterValue() string { return i.ref.Name }

type missionItem struct {
	ref domain.MissionRef
}

func (i missionItem) Title() string { return i.ref.Name }
func (i missionItem) Description() string {
	if i.ref.Description != "" {
		return i.ref.Description
	}
	return i.ref.Path
}
func (i missionItem) FilterValue() string { return i.ref.Name }

type caseItem struct {
	ref domain.CaseRef
}

func (i caseItem) Title() string { return i.ref.Name }
func (i caseItem) Description() string {
	line := i.ref.Vehicle + " / " + i.ref.Mission
	if i.ref.Description != "" {
		line += "  " + i.ref.Description
	}
	return line
}
func (i caseItem) FilterValue() string { return i.ref.Name }

// scenarioItem with an empty name is the "(case default)" entry of the run
// wizard.
type scenarioItem struct {
	name  string
	title string
	desc  string
}

func (i scenarioItem) Title() string       { return i.title }
func (i scenarioItem) Description() string { return i.desc }
func (i scenarioItem) FilterValue() string { return i.title }

type resultItem struct {
	row domain.RunRow
}

func (i resultItem) Title() string {
	return fmt.Sprintf("%s  %s", i.row.Name, i.row.ID)
}

func (i resultItem) Description() string {
	return fmt.Sprintf("%s • %s • %s",
		i.row.Kind, i.row.Status,
		i.row.StartedAt.Local().Format("2006-01-02 15:04:05"),
	)
}

func (i resultItem) FilterValue() string { return i.row.Name + " " + i.row.ID }
