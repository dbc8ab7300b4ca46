package fsworkspace

import "embed"

// templatesFS carries the starter workspace: a reference vehicle, two
// mission profiles, three cases, the battery-technology scenarios and a
// sweep study.
//
//go:embed all:templates
var templatesFS embed.FS
