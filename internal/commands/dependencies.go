package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	input "github.com/tcnksm/go-input"
	"golang.org/x/term"

	"github.com/vistula/vistulabot/internal/api"
	"github.com/vistula/vistulabot/internal/config"
	"github.com/vistula/vistulabot/internal/conversation"
	"github.com/vistula/vistulabot/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, controller *conversation.Controller, opts tui.Options) error
	RunPlain(ctx context.Context, controller *conversation.Controller, in io.Reader, out io.Writer) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the backend client from the effective configuration.
	NewClient func(cfg config.Config, logger zerolog.Logger) (api.BackendClient, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Copy writes text to the system clipboard.
	Copy func(text string) error

	// Confirm asks a yes/no question; the default answer is no.
	Confirm func(in io.Reader, out io.Writer, question string) (bool, error)

	StdinIsTerminal  func() bool
	StdoutIsTerminal func() bool

	// Environ replaces os.Environ() for configuration when non-nil.
	Environ []string
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, controller *conversation.Controller, opts tui.Options) error {
	return tui.RunChat(ctx, controller, opts)
}

func (d *DefaultTUI) RunPlain(ctx context.Context, controller *conversation.Controller, in io.Reader, out io.Writer) error {
	return tui.RunPlain(ctx, controller, in, out)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:        newBackendClient,
		TUI:              &DefaultTUI{},
		Copy:             clipboard.WriteAll,
		Confirm:          confirm,
		StdinIsTerminal:  func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		StdoutIsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
}

// withDefaults fills unset fields from NewDependencies
func (d *Dependencies) withDefaults() *Dependencies {
	defaults := NewDependencies()
	if d == nil {
		return defaults
	}
	out := *d
	if out.NewClient == nil {
		out.NewClient = defaults.NewClient
	}
	if out.TUI == nil {
		out.TUI = defaults.TUI
	}
	if out.Copy == nil {
		out.Copy = defaults.Copy
	}
	if out.Confirm == nil {
		out.Confirm = defaults.Confirm
	}
	if out.StdinIsTerminal == nil {
		out.StdinIsTerminal = defaults.StdinIsTerminal
	}
	if out.StdoutIsTerminal == nil {
		out.StdoutIsTerminal = defaults.StdoutIsTerminal
	}
	return &out
}

func newBackendClient(cfg config.Config, logger zerolog.Logger) (api.BackendClient, error) {
	return api.NewClient(cfg.BackendURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	ui := &input.UI{
		Writer: out,
		Reader: in,
	}

	answer, err := ui.Ask(question+" [y/N]", &input.Options{
		Default:     "n",
		HideDefault: true,
		HideOrder:   true,
		Loop:        true,
		ValidateFunc: func(answer string) error {
			switch strings.ToLower(answer) {
			case "y", "yes", "n", "no":
				return nil
			default:
				return fmt.Errorf("please enter 'y' or 'n'")
			}
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
