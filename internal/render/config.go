package render

import (
	"github.com/vistula/vistulabot/internal/config"
)

// OptionsFromConfig builds render options from the markdown section of the
// user configuration. A width of zero keeps the default.
func OptionsFromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	if width > 0 {
		opts.Width = width
	}
	return opts
}
