package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Without a terminal (plain), markdown is returned as-is.
func NewRenderer(plain bool) func(string) (string, error) {
	if plain {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return "", err }
	}
	return r.Render
}

// ArgumentsMarkdown lists declared launch arguments the way
// "ros2 launch --show-args" does.
func ArgumentsMarkdown(args []launch.DeclareArgument) string {
	var sb strings.Builder
	sb.WriteString("# Arguments (pass arguments as '<name>:=<value>')\n\n")
	if len(args) == 0 {
		sb.WriteString("This launch description declares no arguments.\n")
		return sb.String()
	}
	for _, a := range args {
		fmt.Fprintf(&sb, "- **%s**: %s\n", a.Name, orDash(a.Description))
		if a.Default == nil {
			sb.WriteString("  - required\n")
		} else {
			fmt.Fprintf(&sb, "  - default: `'%s'`\n", a.Default.String())
		}
		if len(a.Choices) > 0 {
			fmt.Fprintf(&sb, "  - choices: %s\n", strings.Join(a.Choices, ", "))
		}
	}
	return sb.String()
}

// PlanMarkdown summarizes a resolved plan.
func PlanMarkdown(plan *launch.Plan) string {
	var sb strings.Builder

	sb.WriteString("# Launch plan\n\n## Arguments\n\n")
	sb.WriteString("| Name | Value | Source |\n|---|---|---|\n")
	for _, a := range plan.Arguments {
		value := "`" + a.Value + "`"
		if a.Defaulted {
			value += " (default)"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", a.Name, value, orDash(a.Source))
	}

	if len(plan.Includes) > 0 {
		sb.WriteString("\n## Includes\n\n")
		for _, inc := range plan.Includes {
			fmt.Fprintf(&sb, "- `%s`\n", inc.Location)
			for _, a := range inc.Arguments {
				fmt.Fprintf(&sb, "  - %s := `%s`\n", a.Name, a.Value)
			}
		}
	}

	sb.WriteString("\n## Processes\n\n")
	sb.WriteString("| # | Node | Package | Executable | Output |\n|---|---|---|---|---|\n")
	for i, p := range plan.Processes {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n", i+1, p.FullyQualifiedName(), p.Package, p.Executable, p.Output)
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
