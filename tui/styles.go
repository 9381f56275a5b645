package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Simple palette inspired by standard terminal dark themes
var (
	ColorPrimary   = lipgloss.Color("255") // White
	ColorSecondary = lipgloss.Color("240") // Dark Gray
	ColorAccent    = lipgloss.Color("39")  // Blue / Cyan
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("196") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorDim       = lipgloss.Color("240") // Dimmed text
)

// Shared styles - minimal and clean
var (
	StyleNormal = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDim)
	StyleBold   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	// Pane labels, rendered uppercase above every editable pane
	StyleLabel = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)

	// Sidebar list item under the cursor
	StyleListItemActive = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	// Bottom bar
	StyleStatusBar = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	StyleProcessing = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	// Help keys
	StyleHelpKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorDim)
)
