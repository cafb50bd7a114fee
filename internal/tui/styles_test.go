package tui

import (
	"fmt"
	"io"
	"strings"
	"testing"

	apierrors "github.com/vistula/vistulabot/internal/errors"
	"github.com/vistula/vistulabot/internal/render"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{
			name: "network",
			err:  apierrors.NewNetworkError("http://localhost:8000/", io.EOF),
			want: []string{"Reason: network", "Endpoint: http://localhost:8000/", "Is the backend running?"},
		},
		{
			name: "status",
			err:  fmt.Errorf("ping: %w", apierrors.NewStatusError("http://localhost:8000/", 503, "down")),
			want: []string{"HTTP Status: 503", "rejected the request"},
		},
		{
			name: "parse",
			err:  apierrors.NewParseError("http://localhost:8000/", 200, "invalid JSON"),
			want: []string{"Reason: parse", "VistulaBot backend"},
		},
		{
			name: "config",
			err:  apierrors.NewConfigError("layout", "must be one of: collapsible full", nil),
			want: []string{"layout", "config show"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatError(tt.err)
			if tt.err == nil && out != "" {
				t.Errorf("FormatError(nil) = %q", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestUpdateTheme(t *testing.T) {
	defer UpdateTheme(render.VistulaTheme)

	UpdateTheme(render.MonoTheme)
	if colorPrimary != render.MonoTheme.Primary || colorAccent != render.MonoTheme.Accent {
		t.Error("colours should follow the applied theme")
	}

	UpdateTheme(render.VistulaLightTheme)
	if colorText != render.VistulaLightTheme.Text {
		t.Error("colours should follow the applied theme")
	}
}
