// Package render turns backend replies into terminal output and holds the
// colour themes of the chat surface.
package render

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "dracula", "notty",
	// "ascii", "tokyo-night", "pink") or a path to a JSON style file
	Style string

	// EnableEmoji converts :emoji: shortcodes to unicode
	EnableEmoji bool

	// PreserveNewLines keeps the line breaks of the reply
	PreserveNewLines bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns Options with newline preservation enabled/disabled.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}
