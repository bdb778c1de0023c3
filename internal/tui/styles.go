package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/textomat/foundation/dsl/parser"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorInfo      = lipgloss.Color("#3B82F6")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	// Pane styles
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	FocusedPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	PaneTitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	FocusedPaneTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(colorError)

	// Status styles
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorAccent).
			Bold(true)

	StatusOKStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorSecondary)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// tokenStyles color the tokens of the command line
var tokenStyles = map[parser.TokenType]lipgloss.Style{
	parser.TokenSeparator: lipgloss.NewStyle().Foreground(colorMuted),
	parser.TokenKeyword:   lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
	parser.TokenFlag:      lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
	parser.TokenBracket:   lipgloss.NewStyle().Foreground(colorInfo),
	parser.TokenPunct:     lipgloss.NewStyle().Foreground(colorMuted),
	parser.TokenNumber:    lipgloss.NewStyle().Foreground(colorAccent),
	parser.TokenString:    lipgloss.NewStyle().Foreground(colorSecondary),
	parser.TokenDefault:   lipgloss.NewStyle().Foreground(colorSecondary).Italic(true),
	parser.TokenArgs:      lipgloss.NewStyle().Foreground(colorInfo).Italic(true),
}

// Output highlighting
var (
	stringStyle  = lipgloss.NewStyle().Foreground(colorSecondary)
	numberStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	keywordStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	punctStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// RenderError renders an error line
func RenderError(err string) string {
	return ErrorMessageStyle.Render("Error: " + err)
}
