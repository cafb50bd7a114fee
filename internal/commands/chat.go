package commands

import (
	"github.com/spf13/cobra"

	"github.com/vistula/vistulabot/internal/render"
	"github.com/vistula/vistulabot/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with VistulaBot.

Type a question and press Enter, or pick one of the quick replies with Tab.
Press Esc or Ctrl+C to end the session. With --plain, or when stdout is not
a terminal, the session reads one question per line; type /quit to end it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, plain)
		},
	}

	cmd.Flags().BoolVarP(&plain, "plain", "p", false, "Line-oriented chat without the full-screen interface")
	return cmd
}

func runChat(cmd *cobra.Command, deps *Dependencies, plain bool) error {
	s, err := openSession(cmd, deps)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	controller := s.controller()

	if plain || !deps.StdoutIsTerminal() {
		s.logger.Info().Msg("starting line chat")
		return deps.TUI.RunPlain(ctx, controller, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	tui.UpdateTheme(render.ResolveTUITheme(s.cfg.TUITheme))
	s.logger.Info().Str("theme", s.cfg.TUITheme).Msg("starting chat")

	return deps.TUI.RunChat(ctx, controller, tui.Options{
		Markdown: s.cfg.Markdown.Enabled,
		Render:   render.OptionsFromConfig(s.cfg.Markdown, 0),
		Copy:     deps.Copy,
	})
}
