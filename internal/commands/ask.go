package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vistula/vistulabot/internal/models"
	"github.com/vistula/vistulabot/internal/render"
)

// errNoQuestion is returned when ask gets neither an argument nor stdin
var errNoQuestion = errors.New("no question given: pass it as an argument or on stdin")

// Styles matching the chat TUI
var (
	askLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4f8fe0")).
			Bold(true)

	askBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4f8fe0")).
			Foreground(colorText).
			Padding(0, 1)
)

// NewAskCmd creates the one-shot question command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	var (
		raw      bool
		copyFlag bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Long: `Send one question to the backend and print the reply.

The question is read from stdin when no argument is given. If the backend
cannot be reached the usual fallback reply is printed and the command still
succeeds, exactly like the chat window.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(cmd, deps, args)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, question, raw, copyFlag)
		},
	}

	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Print only the reply text")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the reply to the clipboard")
	return cmd
}

func readQuestion(cmd *cobra.Command, deps *Dependencies, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if deps.StdinIsTerminal() {
		return "", errNoQuestion
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func runAsk(cmd *cobra.Command, deps *Dependencies, question string, raw, copyReply bool) error {
	s, err := openSession(cmd, deps)
	if err != nil {
		return err
	}
	defer s.Close()

	controller := s.controller()
	turn, ok := controller.Submit(question)
	if !ok {
		return errNoQuestion
	}

	decorated := !raw && deps.StdoutIsTerminal()
	var spin *spinner
	if decorated {
		spin = newSpinner(cmd.ErrOrStderr(), "Asking "+models.AssistantName)
		spin.start()
	}
	reply := controller.Resolve(commandContext(cmd), turn)
	if spin != nil {
		spin.finish()
	}

	out := cmd.OutOrStdout()
	if decorated {
		width := terminalWidth()
		text := reply.Text
		if s.cfg.Markdown.Enabled {
			text = render.Reply(text, render.OptionsFromConfig(s.cfg.Markdown, width-4))
		}
		fmt.Fprintln(out, askLabelStyle.Render(models.AssistantName))
		fmt.Fprintln(out, askBubbleStyle.Width(width).Render(text))
	} else {
		fmt.Fprintln(out, reply.Text)
	}

	if copyReply || s.cfg.CopyToClipboard {
		notice := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
		if err := deps.Copy(reply.Text); err != nil {
			notice = lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
		}
		if !raw {
			fmt.Fprintln(cmd.ErrOrStderr(), notice)
		}
	}

	return nil
}

// terminalWidth returns the bubble width for the current terminal
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	width -= 4
	if width < 40 {
		width = 40
	}
	if width > 120 {
		width = 120
	}
	return width
}
