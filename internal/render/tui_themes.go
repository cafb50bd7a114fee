package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// DefaultThemeName is used when no theme is configured
const DefaultThemeName = "vistula"

// TUITheme defines the colour scheme of the chat surface
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	// Primary colours the top bar and ai messages, Secondary the user's
	// messages, Accent the logo badges and focused quick replies.
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// VistulaTheme follows the university's navy and gold branding
	VistulaTheme = TUITheme{
		Name:        "vistula",
		Description: "Vistula - navy and gold",

		Surface: lipgloss.Color("#0b1f3a"),
		Border:  lipgloss.Color("#2b4a75"),

		Primary:   lipgloss.Color("#4f8fe0"),
		Secondary: lipgloss.Color("#e8b931"),
		Accent:    lipgloss.Color("#f2c94c"),
		Error:     lipgloss.Color("#eb5757"),

		Text:     lipgloss.Color("#e6edf7"),
		TextDim:  lipgloss.Color("#8aa0bf"),
		TextMute: lipgloss.Color("#4a5f7e"),
	}

	// VistulaLightTheme is the widget's white page variant
	VistulaLightTheme = TUITheme{
		Name:        "vistula-light",
		Description: "Vistula Light - navy on white",

		Surface: lipgloss.Color("#ffffff"),
		Border:  lipgloss.Color("#c5d3e8"),

		Primary:   lipgloss.Color("#0b3d91"),
		Secondary: lipgloss.Color("#9a6b00"),
		Accent:    lipgloss.Color("#c99700"),
		Error:     lipgloss.Color("#c0392b"),

		Text:     lipgloss.Color("#1b2a41"),
		TextDim:  lipgloss.Color("#5b6b82"),
		TextMute: lipgloss.Color("#a0adbf"),
	}

	// MonoTheme avoids colour for terminals with a limited palette
	MonoTheme = TUITheme{
		Name:        "mono",
		Description: "Mono - greyscale",

		Surface: lipgloss.Color("0"),
		Border:  lipgloss.Color("8"),

		Primary:   lipgloss.Color("15"),
		Secondary: lipgloss.Color("7"),
		Accent:    lipgloss.Color("15"),
		Error:     lipgloss.Color("15"),

		Text:     lipgloss.Color("15"),
		TextDim:  lipgloss.Color("7"),
		TextMute: lipgloss.Color("8"),
	}
)

// AvailableTUIThemes returns all built-in themes, the default first
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{VistulaTheme, VistulaLightTheme, MonoTheme}
}

// TUIThemeNames returns the names of the built-in themes
func TUIThemeNames() []string {
	return lo.Map(AvailableTUIThemes(), func(t TUITheme, _ int) string {
		return t.Name
	})
}

// GetTUIThemeByName looks a theme up by name, ignoring case
func GetTUIThemeByName(name string) (TUITheme, bool) {
	return lo.Find(AvailableTUIThemes(), func(t TUITheme) bool {
		return strings.EqualFold(t.Name, strings.TrimSpace(name))
	})
}

// ResolveTUITheme returns the named theme, or the default theme when the
// name is empty or unknown.
func ResolveTUITheme(name string) TUITheme {
	if theme, ok := GetTUIThemeByName(name); ok {
		return theme
	}
	return VistulaTheme
}
