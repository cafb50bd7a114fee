package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vistula/vistulabot/internal/api"
	"github.com/vistula/vistulabot/internal/config"
	"github.com/vistula/vistulabot/internal/conversation"
	"github.com/vistula/vistulabot/internal/logging"
	"github.com/vistula/vistulabot/internal/models"
)

// session bundles what a command needs to talk to the backend
type session struct {
	cfg    config.Config
	logger zerolog.Logger
	client api.BackendClient
	closer io.Closer
}

// loadConfig resolves the configuration layers and applies the global flags
func loadConfig(deps *Dependencies) (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path:    configFlag,
		Environ: deps.Environ,
	})
	if err != nil {
		return cfg, err
	}

	if backendFlag != "" {
		cfg.BackendURL = backendFlag
	}
	if layoutFlag != "" {
		mode, err := models.ParseLayoutMode(layoutFlag)
		if err != nil {
			return cfg, err
		}
		cfg.Layout = mode
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openSession loads configuration, starts logging and builds the client
func openSession(cmd *cobra.Command, deps *Dependencies) (*session, error) {
	cfg, err := loadConfig(deps)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(logging.Options{
		File:  cfg.LogFile,
		Level: cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start logging: %w", err)
	}
	logger = logger.With().Str("command", cmd.Name()).Logger()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug().
		Str("backend", client.BaseURL()).
		Str("layout", string(cfg.Layout)).
		Msg("session opened")

	return &session{cfg: cfg, logger: logger, client: client, closer: closer}, nil
}

// controller builds a conversation controller from the session configuration
func (s *session) controller() *conversation.Controller {
	logger := s.logger
	return conversation.New(s.client,
		conversation.WithLayoutMode(s.cfg.Layout),
		conversation.WithFallbackReply(s.cfg.FallbackReply),
		conversation.WithQuickReplies(s.cfg.QuickReplies),
		conversation.WithLogger(logger),
		conversation.WithAppendHook(func(index int, msg models.Message) {
			logger.Trace().
				Int("index", index).
				Stringer("sender", msg.Sender).
				Int("length", len(msg.Text)).
				Msg("message appended")
		}),
	)
}

func (s *session) Close() {
	s.client.Close()
	s.closer.Close()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
