package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/planlaunch/internal/presentation/tui"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgumentsMarkdown(t *testing.T) {
	md := tui.ArgumentsMarkdown([]launch.DeclareArgument{
		{Name: "namespace", Default: launch.Text(""), Description: "Namespace"},
		{Name: "model_file", Description: "PDDL Model file"},
		{Name: "mode", Default: launch.Text("sim"), Choices: []string{"sim", "real"}},
	})

	assert.Contains(t, md, "- **namespace**: Namespace\n  - default: `''`")
	assert.Contains(t, md, "- **model_file**: PDDL Model file\n  - required")
	assert.Contains(t, md, "choices: sim, real")

	assert.Contains(t, tui.ArgumentsMarkdown(nil), "declares no arguments")
}

func TestPlanMarkdown(t *testing.T) {
	md := tui.PlanMarkdown(&launch.Plan{
		Arguments: []launch.ArgumentValue{{Name: "namespace", Value: "", Defaulted: true}},
		Includes: []launch.IncludedSource{{
			Location:  "/opt/ros/humble/share/plansys2_bringup/launch/plansys2_bringup_launch_monolithic.yaml",
			Arguments: []launch.NamedValue{{Name: "namespace", Value: ""}},
		}},
		Processes: []launch.ProcessSpec{{Package: "temporal_planning", Executable: "move_agent_action_node", Name: "move_agent_action_node", Output: launch.OutputScreen}},
	})

	assert.Contains(t, md, "| namespace | `` (default) | - |")
	assert.Contains(t, md, "plansys2_bringup_launch_monolithic.yaml`")
	assert.Contains(t, md, "| 1 | /move_agent_action_node | temporal_planning | move_agent_action_node | screen |")
}

func TestNewRenderer(t *testing.T) {
	plain := tui.NewRenderer(true)
	out, err := plain("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)

	rendered, err := tui.NewRenderer(false)("# Arguments\n\n- **namespace**")
	require.NoError(t, err)
	assert.Contains(t, rendered, "Arguments")
	assert.Contains(t, rendered, "namespace")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, termenv.Ascii, "0.1.0", "")
	out := buf.String()
	assert.Contains(t, out, " planlaunch  0.1.0")
	assert.True(t, strings.Contains(out, "temporal planning in /"))
}
