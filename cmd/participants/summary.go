package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	crawlinfo "github.com/devsidequests/participants/internal/crawl_info"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F5A623"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle = lipgloss.NewStyle().Foreground(colorDim).Width(14)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// summary formats the end-of-run box printed after every command.
func summary(info *crawlinfo.Info) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("participants %s", info.Mode)))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("run", info.RunID)
	if info.Mode == "update" {
		row("forks", fmt.Sprint(info.Forks))
	}
	row("participants", fmt.Sprintf("%d (%d new)", info.Participants, info.NewParticipants))
	if info.Mode != "refresh" {
		row("projects", fmt.Sprint(info.Projects))
		row("quests", fmt.Sprint(info.ActiveQuests))
		row("completions", fmt.Sprint(info.Completions))
	}
	row("output", info.Output)
	row("duration", info.Duration.Round(time.Millisecond).String())

	if info.Degraded() {
		row("failures", warnStyle.Render(fmt.Sprintf("%d (%s)", info.Report.Len(), strings.Join(info.Report.Logins(), ", "))))
	} else {
		row("failures", okStyle.Render("none"))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
