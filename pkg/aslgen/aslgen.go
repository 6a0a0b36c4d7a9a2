// Package aslgen renders the script.asl auto-splitter skeleton shipped
// inside the archive. The script declares every recognised mask and an
// empty block per VASL action for the user to fill in.
package aslgen

import (
	"bytes"
	"fmt"
	"text/template"
)

type scriptAction struct {
	Name        string
	Description string
}

// scriptActions lists the VASL actions in script order.
var scriptActions = []scriptAction{
	{"startup", "Setup initial settings like refresh rates or game-specific configurations."},
	{"shutdown", "Executed when closing VASL, suitable for cleanup and saving state."},
	{"init", "Initial logic, executed once before the update loop for setting initial variables."},
	{"exit", "Executed when the script exits, for post-timer actions."},
	{"update", "Continuous core logic of the script, executed first in each update cycle."},
	{"start", "Defines start conditions for the timer, including value resets."},
	{"split", `Triggers a split based on specific conditions, e.g., features["split-image"].old > 90.`},
	{"reset", "Conditions to reset the timer. Use cautiously."},
	{"isLoading", `Manages game time during load screens, e.g., return features["load-screen"].current > 90`},
	{"gameTime", "Handles complex or game-specific game time calculations."},
}

const scriptText = `// Generated using VAS File Architect: https://github.com/phrayse/VAS-File-Architect

// Recognised masks:
{{- range .Masks}}
// features["{{.}}"]
{{- end}}
{{- range .Actions}}

{{.Name}}
{
	// {{.Description}}
}
{{- end}}
`

var scriptTemplate = template.Must(template.New("script").Parse(scriptText))

// Generate renders the auto-splitter skeleton for the given mask names,
// which should arrive in game profile order.
func Generate(maskNames []string) ([]byte, error) {
	data := struct {
		Masks   []string
		Actions []scriptAction
	}{
		Masks:   maskNames,
		Actions: scriptActions,
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render script: %w", err)
	}
	return buf.Bytes(), nil
}
