package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPingCmd creates the backend health check command
func NewPingCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		Long: `Send GET / to the backend and print its health message.
Exits with a non-zero status when the backend is unavailable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, deps)
			if err != nil {
				return err
			}
			defer s.Close()

			message, err := s.client.Ping(commandContext(cmd))
			if err != nil {
				s.logger.Error().Err(err).Msg("ping failed")
				return fmt.Errorf("ping %s: %w", s.client.BaseURL(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is up: %s\n", s.client.BaseURL(), message)
			return nil
		},
	}
}
