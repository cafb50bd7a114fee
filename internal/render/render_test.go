package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines {
		t.Errorf("expected emoji and newlines enabled, got %+v", opts)
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithStyle("light").
		WithEmoji(false).
		WithPreserveNewLines(false)

	want := Options{Width: 100, Style: "light"}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
	if DefaultOptions().Width != 80 {
		t.Error("With* must not mutate the receiver's source")
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains []string
	}{
		{"plain answer", "The dean's office is in building A.", 80, []string{"dean", "building"}},
		{"bold", "Bring your **student ID**", 80, []string{"student", "ID"}},
		{"list", "- passport photo\n- application form", 80, []string{"passport", "application"}},
		{"heading", "# Opening hours", 80, []string{"Opening"}},
		{"link", "[Student portal](https://vistula.edu.pl)", 80, []string{"Student"}},
		{"narrow width", "Documents can be submitted at the registry office on the ground floor", 30, []string{"registry"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions().WithWidth(tc.width))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tc.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Good luck :smile:"

	output, err := Markdown(input, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, ":smile:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	output, err = Markdown(input, DefaultOptions().WithEmoji(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, ":smile:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	if _, err := Markdown("# Test", DefaultOptions().WithStyle("nonexistent_style_path")); err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestReply(t *testing.T) {
	t.Run("rendered without surrounding newlines", func(t *testing.T) {
		out := Reply("Visit **room 101**.", DefaultOptions())
		if !strings.Contains(out, "room 101") {
			t.Errorf("reply lost its text: %q", out)
		}
		if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
			t.Errorf("reply should be trimmed: %q", out)
		}
	})

	t.Run("falls back to plain text", func(t *testing.T) {
		text := "Sorry, backend is not responding."
		if out := Reply(text, DefaultOptions().WithStyle("nonexistent_style_path")); out != text {
			t.Errorf("Reply() = %q, want %q", out, text)
		}
	})
}
