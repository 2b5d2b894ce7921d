// internal/tui/badges.go
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

var stateColors = map[views.State]string{
	views.Idle:    "245",
	views.Loading: "229",
	views.Ready:   "114",
	views.Failed:  "9",
}

// renderStateBadge returns a Lipgloss-styled badge for the load state.
func renderStateBadge(state views.State) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color(stateColors[state])).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	return badgeStyle.Render(strings.ToUpper(state.String()))
}

// renderPolicyBadge returns a Lipgloss-styled badge for the match policy.
func renderPolicyBadge(policy reshape.MatchPolicy) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	return badgeStyle.Render("Policy: " + policy.String())
}

// renderTabs draws labels in a row with the active one highlighted.
func renderTabs(labels []string, active int) string {
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	idleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			parts[i] = activeStyle.Render(l)
		} else {
			parts[i] = idleStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
