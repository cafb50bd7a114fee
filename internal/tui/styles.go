// Package tui provides the terminal chat surface for vistulabot.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vistula/vistulabot/internal/errors"
	"github.com/vistula/vistulabot/internal/render"
)

// Color variables (updated from theme)
var (
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	// Top bar with the two logo badges around the heading
	topBarStyle  lipgloss.Style
	badgeStyle   lipgloss.Style
	headingStyle lipgloss.Style

	// Greeting shown above the quick replies
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style

	quickReplyStyle        lipgloss.Style
	quickReplyFocusedStyle lipgloss.Style

	messagesAreaStyle    lipgloss.Style
	userLabelStyle       lipgloss.Style
	userBubbleStyle      lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	assistantBubbleStyle lipgloss.Style

	inputPanelStyle        lipgloss.Style
	inputPanelFocusedStyle lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	noticeStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	loadingStyle lipgloss.Style
)

// init loads the default theme on package initialization
func init() {
	UpdateTheme(render.VistulaTheme)
}

// UpdateTheme refreshes all styles from the given theme
func UpdateTheme(theme render.TUITheme) {
	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	topBarStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
		Foreground(colorSurface).
		Background(colorAccent).
		Bold(true).
		Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		MarginTop(1)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	quickReplyStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(1)

	quickReplyFocusedStyle = quickReplyStyle.
		BorderForeground(colorAccent).
		Foreground(colorAccent).
		Bold(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputPanelFocusedStyle = inputPanelStyle.
		BorderForeground(colorPrimary)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)
}

// FormatError returns a styled error message with the details carried by
// BackendUnavailableError, for commands that report failures directly.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if reason := errors.GetReason(err); reason != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Reason: %s", reason)))
	}

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch errors.GetReason(err) {
	case errors.ReasonNetwork:
		sb.WriteString(dimStyle.Render("\n  Hint: Is the backend running? Set it with --backend or VISTULABOT_BACKEND_URL"))
	case errors.ReasonStatus:
		sb.WriteString(dimStyle.Render("\n  Hint: The backend rejected the request; check its logs"))
	case errors.ReasonParse:
		sb.WriteString(dimStyle.Render("\n  Hint: The address may not point at a VistulaBot backend"))
	}

	if errors.IsConfigError(err) {
		sb.WriteString(dimStyle.Render("\n  Hint: Run 'vistulabot config show' to inspect the effective configuration"))
	}

	return sb.String()
}
