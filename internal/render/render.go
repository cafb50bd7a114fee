package render

import "strings"

// Markdown renders markdown content for terminal display.
// Renderers are pooled per option set; a TermRenderer is never shared
// between concurrent calls.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Reply renders an ai reply for the message list. Replies are shown even
// when rendering fails, so the plain text is returned in that case.
func Reply(text string, opts Options) string {
	out, err := Markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
