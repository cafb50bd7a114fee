// Package config handles layered configuration for vistulabot.
//
// Values are resolved in this order, later layers winning:
// built-in defaults, the JSON config file, a .env file, and the
// VISTULABOT_* environment variables. Command-line flags are applied
// on top by the commands package.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	apierrors "github.com/vistula/vistulabot/internal/errors"
	"github.com/vistula/vistulabot/internal/models"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "VISTULABOT_"

// HomeEnv overrides the configuration directory
const HomeEnv = "VISTULABOT_HOME"

// MarkdownConfig configures markdown rendering of backend replies
type MarkdownConfig struct {
	Enabled          bool   `json:"enabled" env:"ENABLED"`
	Style            string `json:"style" env:"STYLE" validate:"required"` // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" env:"EMOJI"`
	PreserveNewLines bool   `json:"preserve_newlines" env:"PRESERVE_NEWLINES"`
}

// Config represents the user configuration
type Config struct {
	// BackendURL is the base address; the client appends /ask.
	BackendURL string            `json:"backend_url" env:"BACKEND_URL" validate:"required,http_url"`
	Layout     models.LayoutMode `json:"layout" env:"LAYOUT" validate:"required,oneof=collapsible full"`
	// FallbackReply is shown as the ai message when the backend call fails.
	FallbackReply string   `json:"fallback_reply" env:"FALLBACK_REPLY" validate:"required"`
	QuickReplies  []string `json:"quick_replies" env:"QUICK_REPLIES" envSeparator:"|" validate:"max=9,dive,required"`
	// RequestTimeout is in seconds. Zero waits forever.
	RequestTimeout  int            `json:"request_timeout" env:"REQUEST_TIMEOUT" validate:"gte=0"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"TUI_THEME"`
	CopyToClipboard bool           `json:"copy_to_clipboard" env:"COPY_TO_CLIPBOARD"`
	LogFile         string         `json:"log_file,omitempty" env:"LOG_FILE"`
	LogLevel        string         `json:"log_level" env:"LOG_LEVEL" validate:"oneof=trace debug info warn error disabled"`
	Markdown        MarkdownConfig `json:"markdown" envPrefix:"MARKDOWN_"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Enabled:          true,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	logFile := ""
	if dir, err := GetConfigDir(); err == nil {
		logFile = filepath.Join(dir, "vistulabot.log")
	}
	return Config{
		BackendURL:      models.DefaultBackendURL,
		Layout:          models.LayoutCollapsible,
		FallbackReply:   models.DefaultFallbackReply,
		QuickReplies:    models.DefaultQuickReplies(),
		RequestTimeout:  0,
		TUITheme:        "vistula",
		CopyToClipboard: false,
		LogFile:         logFile,
		LogLevel:        "info",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".vistulabot"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Path of the JSON config file. Empty means GetConfigPath().
	Path string
	// EnvFile is a dotenv file merged under the process environment.
	// Empty means ".env" in the working directory; a missing file is ignored.
	EnvFile string
	// Environ replaces os.Environ() when non-nil.
	Environ []string
}

// LoadConfig loads the configuration from the default locations
func LoadConfig() (Config, error) {
	return Load(LoadOptions{})
}

// Load resolves every configuration layer and validates the result.
// On failure the defaults are returned alongside the error.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	path := opts.Path
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if err := readFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}

	environ, err := environment(opts)
	if err != nil {
		return DefaultConfig(), err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return DefaultConfig(), apierrors.NewConfigError("", "failed to parse environment", err)
	}

	if err := Validate(cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return apierrors.NewConfigError("", fmt.Sprintf("failed to parse %s", path), err)
	}
	return nil
}

// environment merges the dotenv file beneath the process environment,
// so real environment variables always win.
func environment(opts LoadOptions) (map[string]string, error) {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	merged := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return merged, nil
		}
		return nil, apierrors.NewConfigError("", fmt.Sprintf("failed to read %s", envFile), err)
	}

	for k, v := range dotenv {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return merged, nil
}

// SaveConfig saves the configuration to the default path
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveConfigTo writes the configuration as indented JSON
func SaveConfigTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
