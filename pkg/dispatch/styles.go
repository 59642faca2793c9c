package dispatch

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles for operator-facing terminal output in manual mode.
var (
	// ResponseHeaderStyle marks the start of an agent response.
	ResponseHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("36")).
				Bold(true)

	// ErrorStyle marks responses that carry captured errors.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// BusyStyle marks busy notices.
	BusyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	// ToolListStyle is used for the startup tool catalog listing.
	ToolListStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)
