package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vistula/vistulabot/internal/api"
	"github.com/vistula/vistulabot/internal/config"
	"github.com/vistula/vistulabot/internal/conversation"
	apierrors "github.com/vistula/vistulabot/internal/errors"
	"github.com/vistula/vistulabot/internal/models"
	"github.com/vistula/vistulabot/internal/tui"
)

// recordingTUI captures how the chat surfaces were started
type recordingTUI struct {
	chatCalls  int
	plainCalls int
	controller *conversation.Controller
	opts       tui.Options
}

func (r *recordingTUI) RunChat(ctx context.Context, controller *conversation.Controller, opts tui.Options) error {
	r.chatCalls++
	r.controller = controller
	r.opts = opts
	return nil
}

func (r *recordingTUI) RunPlain(ctx context.Context, controller *conversation.Controller, in io.Reader, out io.Writer) error {
	r.plainCalls++
	r.controller = controller
	return tui.RunPlain(ctx, controller, in, out)
}

type testEnv struct {
	deps    *Dependencies
	client  *api.MockClient
	ui      *recordingTUI
	copied  []string
	lastCfg config.Config
	home    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)

	env := &testEnv{
		client: &api.MockClient{AnswerVal: "X", PingVal: "Backend is working!", BaseURLVal: "http://localhost:8000"},
		ui:     &recordingTUI{},
		home:   home,
	}
	env.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger zerolog.Logger) (api.BackendClient, error) {
			env.lastCfg = cfg
			return env.client, nil
		},
		TUI: env.ui,
		Copy: func(text string) error {
			env.copied = append(env.copied, text)
			return nil
		},
		Confirm: func(in io.Reader, out io.Writer, question string) (bool, error) {
			return false, nil
		},
		StdinIsTerminal:  func() bool { return false },
		StdoutIsTerminal: func() bool { return false },
		Environ:          []string{},
	}
	return env
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(e.deps)
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_Version(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "", "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "vistulabot "+Version) {
		t.Errorf("output = %q", out)
	}
	if env.ui.plainCalls+env.ui.chatCalls != 0 {
		t.Error("--version must not start a chat")
	}
}

func TestRoot_DefaultsToChat(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "Hi\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.ui.plainCalls != 1 {
		t.Fatalf("expected line chat when stdout is not a terminal, got %d calls", env.ui.plainCalls)
	}
	if !strings.Contains(out, "VistulaBot: X") {
		t.Errorf("output missing reply:\n%s", out)
	}
	if !env.client.CloseCalled() {
		t.Error("client should be closed when the session ends")
	}
}

func TestChat_TerminalStartsTUI(t *testing.T) {
	env := newTestEnv(t)
	env.deps.StdoutIsTerminal = func() bool { return true }

	if _, _, err := env.run(t, "", "chat", "--layout", "full"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.ui.chatCalls != 1 || env.ui.plainCalls != 0 {
		t.Fatalf("chat calls = %d, plain calls = %d", env.ui.chatCalls, env.ui.plainCalls)
	}
	if !env.ui.opts.Markdown {
		t.Error("markdown should be enabled by default")
	}
	if env.ui.opts.Copy == nil {
		t.Error("copy function should be passed to the TUI")
	}
	if env.ui.controller.Mode() != models.LayoutFull {
		t.Errorf("Mode() = %s, want full", env.ui.controller.Mode())
	}
}

func TestChat_PlainFlag(t *testing.T) {
	env := newTestEnv(t)
	env.deps.StdoutIsTerminal = func() bool { return true }

	if _, _, err := env.run(t, "", "chat", "--plain"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.ui.plainCalls != 1 || env.ui.chatCalls != 0 {
		t.Errorf("chat calls = %d, plain calls = %d", env.ui.chatCalls, env.ui.plainCalls)
	}
}

func TestGlobalFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, cfg config.Config)
		wantErr bool
	}{
		{
			name: "backend",
			args: []string{"--backend", "http://localhost:5000", "ping"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.BackendURL != "http://localhost:5000" {
					t.Errorf("BackendURL = %q", cfg.BackendURL)
				}
			},
		},
		{
			name: "log level",
			args: []string{"--log-level", "disabled", "ping"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.LogLevel != "disabled" {
					t.Errorf("LogLevel = %q", cfg.LogLevel)
				}
			},
		},
		{
			name: "log file",
			args: []string{"--log-file", "-", "--log-level", "disabled", "ping"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.LogFile != "-" {
					t.Errorf("LogFile = %q", cfg.LogFile)
				}
			},
		},
		{name: "invalid backend", args: []string{"--backend", "ftp://files", "ping"}, wantErr: true},
		{name: "invalid layout", args: []string{"--layout", "sidebar", "ping"}, wantErr: true},
		{name: "invalid log level", args: []string{"--log-level", "loud", "ping"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, _, err := env.run(t, "", tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if env.client.PingCalled() {
					t.Error("backend must not be contacted with invalid configuration")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, env.lastCfg)
		})
	}
}

func TestInvalidBackendIsConfigError(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "", "--backend", "not a url", "ping")
	if !apierrors.IsConfigError(err) {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		answer    string
		askErr    error
		wantOut   string
		wantAsked string
	}{
		{
			name:      "argument",
			args:      []string{"ask", "Hi"},
			answer:    "X",
			wantOut:   "X\n",
			wantAsked: "Hi",
		},
		{
			name:      "stdin",
			stdin:     "Where can I submit my documents?\n",
			args:      []string{"ask", "--raw"},
			answer:    "At the registry office.",
			wantOut:   "At the registry office.\n",
			wantAsked: "Where can I submit my documents?",
		},
		{
			name:      "backend failure prints fallback",
			args:      []string{"ask", "Hi"},
			askErr:    apierrors.NewNetworkError("http://localhost:8000/ask", errors.New("connection refused")),
			wantOut:   models.DefaultFallbackReply + "\n",
			wantAsked: "Hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.client.AnswerVal = tt.answer
			env.client.AskErr = tt.askErr

			out, _, err := env.run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.wantOut {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
			if q := env.client.Questions(); len(q) != 1 || q[0] != tt.wantAsked {
				t.Errorf("questions = %q, want [%q]", q, tt.wantAsked)
			}
		})
	}
}

func TestAsk_NoQuestion(t *testing.T) {
	t.Run("terminal stdin", func(t *testing.T) {
		env := newTestEnv(t)
		env.deps.StdinIsTerminal = func() bool { return true }

		_, _, err := env.run(t, "", "ask")
		if !errors.Is(err, errNoQuestion) {
			t.Errorf("err = %v, want errNoQuestion", err)
		}
	})

	t.Run("blank question", func(t *testing.T) {
		env := newTestEnv(t)

		_, _, err := env.run(t, "", "ask", "   ")
		if !errors.Is(err, errNoQuestion) {
			t.Errorf("err = %v, want errNoQuestion", err)
		}
		if len(env.client.Questions()) != 0 {
			t.Error("blank question must not reach the backend")
		}
	})
}

func TestAsk_Copy(t *testing.T) {
	env := newTestEnv(t)
	env.client.AnswerVal = "Room 101"

	_, stderr, err := env.run(t, "", "ask", "--copy", "Where is the library?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.copied) != 1 || env.copied[0] != "Room 101" {
		t.Errorf("copied = %q", env.copied)
	}
	if !strings.Contains(stderr, "Copied to clipboard") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestAsk_CopyFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Copy = func(string) error { return errors.New("no clipboard utility") }

	_, stderr, err := env.run(t, "", "ask", "--copy", "Hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "no clipboard utility") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestPing(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		env := newTestEnv(t)

		out, _, err := env.run(t, "", "ping")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "http://localhost:8000 is up: Backend is working!\n" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("down", func(t *testing.T) {
		env := newTestEnv(t)
		env.client.PingErr = apierrors.NewStatusError("http://localhost:8000/", 502, "Bad Gateway")

		_, _, err := env.run(t, "", "ping")
		if !apierrors.IsBackendUnavailable(err) {
			t.Fatalf("err = %v, want a backend failure", err)
		}
		if apierrors.GetHTTPStatus(err) != 502 {
			t.Errorf("status = %d", apierrors.GetHTTPStatus(err))
		}
	})
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Environ = []string{"VISTULABOT_QUICK_REPLIES=Where is room 101?"}

	out, _, err := env.run(t, "", "--backend", "http://localhost:5000", "config", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if len(cfg.QuickReplies) != 1 || cfg.QuickReplies[0] != "Where is room 101?" {
		t.Errorf("QuickReplies = %q", cfg.QuickReplies)
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "", "config", "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(env.home, "config.json") {
		t.Errorf("path = %q", out)
	}

	out, _, err = env.run(t, "", "--config", "/tmp/custom.json", "config", "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "/tmp/custom.json" {
		t.Errorf("path = %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.home, "config.json")

	if _, _, err := env.run(t, "", "config", "init"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := config.Load(config.LoadOptions{Path: path, Environ: []string{}}); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}

	// Existing file, declined
	if err := os.WriteFile(path, []byte(`{"backend_url":"http://localhost:5000"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := env.run(t, "", "config", "init")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "Aborted") {
		t.Errorf("stderr = %q", stderr)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "5000") {
		t.Error("declined init must keep the existing file")
	}

	// Existing file, confirmed
	var asked string
	env.deps.Confirm = func(in io.Reader, out io.Writer, question string) (bool, error) {
		asked = question
		return true, nil
	}
	if _, _, err := env.run(t, "", "config", "init"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(asked, path) {
		t.Errorf("question = %q", asked)
	}
	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "5000") {
		t.Error("confirmed init should overwrite the file")
	}

	// --force skips the question
	env.deps.Confirm = func(in io.Reader, out io.Writer, question string) (bool, error) {
		t.Error("--force must not ask")
		return false, nil
	}
	if _, _, err := env.run(t, "", "config", "init", "--force"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.input), &out, "Overwrite?")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Overwrite? [y/N]") {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestNewDependencies(t *testing.T) {
	deps := NewDependencies()
	if deps.NewClient == nil || deps.TUI == nil || deps.Copy == nil || deps.Confirm == nil {
		t.Error("NewDependencies should fill every dependency")
	}

	var nilDeps *Dependencies
	if filled := nilDeps.withDefaults(); filled.TUI == nil {
		t.Error("withDefaults on nil should return defaults")
	}

	client, err := deps.NewClient(config.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()
	if client.BaseURL() != models.DefaultBackendURL {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
}
