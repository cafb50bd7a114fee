// Package commands provides CLI commands for vistulabot.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vistula/vistulabot/internal/tui"
)

var (
	// Global flags
	configFlag   string
	backendFlag  string
	layoutFlag   string
	logFileFlag  string
	logLevelFlag string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd creates the vistulabot command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "vistulabot",
		Short: "Terminal chat client for the VistulaBot assistant",
		Long: `vistulabot is a terminal client for VistulaBot, the Vistula Academy of
Finance and Business chat assistant. Questions are sent to the backend's
/ask endpoint and every question receives exactly one reply.

Examples:
  vistulabot                                  Start interactive chat
  vistulabot chat --plain                     Line-oriented chat
  vistulabot ask "Where is the dean's office?"
  echo "How can I get my student ID?" | vistulabot ask --raw
  vistulabot --backend http://localhost:5000 ping
  vistulabot config show`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "vistulabot %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, deps, false)
		},
	}

	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to the config file (default ~/.vistulabot/config.json)")
	cmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Backend base URL, e.g. http://localhost:5000")
	cmd.PersistentFlags().StringVarP(&layoutFlag, "layout", "l", "", "Layout mode: collapsible or full")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Diagnostic log file, '-' for stderr")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewAskCmd(deps))
	cmd.AddCommand(NewPingCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}
