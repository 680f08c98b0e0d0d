package graph

import (
	"fmt"
	"path"
	"strings"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/launch"
)

// rootID is the Mermaid ID of the top-level description.
const rootID = "launch"

// GraphOverlay contains live process state to visualize on the graph.
type GraphOverlay struct {
	Processes []domain.ProcessRecord
}

// GenerateMermaid produces a Mermaid flowchart of a resolved plan.
// It applies semantic styling:
// - Root description: ((Circle))
// - Included source: [[Subroutine]]
// - Process: [Rectangle]
// Edges go from the source that declared a process (or include) to it; include
// edges are labeled with the forwarded arguments. Process states from the
// overlay, if any, are applied as classes.
func GenerateMermaid(plan *launch.Plan, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", rootID, rootLabel(plan)))

	sourceIDs := map[string]string{"": rootID}
	for _, inc := range plan.Includes {
		id := "inc_" + sanitizeMermaidID(inc.Location)
		sourceIDs[inc.Location] = id

		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, quote(path.Base(inc.Location))))

		names := make([]string, 0, len(inc.Arguments))
		for _, a := range inc.Arguments {
			names = append(names, a.Name)
		}
		arrow := "-->"
		if len(names) > 0 {
			arrow = fmt.Sprintf("-- \"%s\" -->", quote(strings.Join(names, ", ")))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", parentID(sourceIDs, inc.Parent), arrow, id))
	}

	for _, p := range plan.Processes {
		id := processID(p.FullyQualifiedName())
		label := p.FullyQualifiedName()
		if p.Package != "" {
			label = fmt.Sprintf("%s <br/> %s/%s", label, p.Package, p.Executable)
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, quote(label)))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", parentID(sourceIDs, p.Source), id))
	}

	if overlay != nil && len(overlay.Processes) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef running fill:#dcfce7,stroke:#15803d,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef exited fill:#e5e7eb,stroke:#4b5563,stroke-width:1px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#fee2e2,stroke:#b91c1c,stroke-width:4px,color:#000;\n")

		for _, rec := range overlay.Processes {
			class := ""
			switch {
			case rec.State == domain.ProcessRunning:
				class = "running"
			case rec.State == domain.ProcessFailed, rec.State == domain.ProcessExited && rec.ExitCode != 0:
				class = "failed"
			case rec.State == domain.ProcessExited:
				class = "exited"
			}
			if class != "" {
				sb.WriteString(fmt.Sprintf("    class %s %s;\n", processID(rec.FQN), class))
			}
		}
	}

	return sb.String()
}

func rootLabel(plan *launch.Plan) string {
	if ns, ok := plan.Argument("namespace"); ok && ns.Value != "" {
		return quote("launch " + launch.NormalizeNamespace(ns.Value))
	}
	return rootID
}

func parentID(ids map[string]string, location string) string {
	if id, ok := ids[location]; ok {
		return id
	}
	return rootID
}

func processID(fqn string) string {
	return "node" + sanitizeMermaidID(fqn)
}

func quote(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
