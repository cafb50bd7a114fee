package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vistula/vistulabot/internal/conversation"
	"github.com/vistula/vistulabot/internal/models"
	"github.com/vistula/vistulabot/internal/render"
)

// Message types for the TUI
type (
	// replyMsg carries a settled turn back to the update loop
	replyMsg struct {
		reply conversation.Reply
	}
	// copiedMsg reports the outcome of a clipboard copy
	copiedMsg struct {
		err error
	}
)

// focusInput is the focus index of the text input; quick reply i has focus i+1
const focusInput = 0

// Options configures the chat surface
type Options struct {
	// Markdown renders ai replies with glamour
	Markdown bool
	// Render holds the glamour options; the width is set from the window
	Render render.Options
	// Copy writes to the system clipboard (default: clipboard.WriteAll)
	Copy func(text string) error
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	controller *conversation.Controller
	opts       Options

	// UI components
	viewport viewport.Model
	input    textinput.Model

	// State
	focus    int
	notice   string
	ready    bool
	rendered map[int]string // markdown output per message index

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat model bound to the controller. Backend turns
// started from the model run with ctx.
func NewChatModel(ctx context.Context, controller *conversation.Controller, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Render == (render.Options{}) {
		opts.Render = render.DefaultOptions()
	}

	ti := textinput.New()
	ti.Placeholder = models.Placeholder
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	ti.SetValue(controller.Input())
	ti.Focus()

	return Model{
		ctx:        ctx,
		controller: controller,
		opts:       opts,
		input:      ti,
		focus:      focusInput,
		rendered:   make(map[int]string),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.viewportWidth(), 5)
			m.ready = true
		}
		m.rendered = make(map[int]string)
		m.layout()
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.moveFocus(1)
			return m, nil

		case "shift+tab":
			m.moveFocus(-1)
			return m, nil

		case "enter":
			if m.focus != focusInput {
				replies := m.controller.QuickReplies()
				if m.focus-1 < len(replies) {
					turn, _ := m.controller.Submit(replies[m.focus-1])
					return m.start(turn)
				}
				return m, nil
			}
			m.controller.OnInputChange(m.input.Value())
			turn, ok := m.controller.OnKeyCommit(models.CommitKey)
			if !ok {
				return m, nil
			}
			return m.start(turn)

		case "ctrl+y":
			text, ok := m.controller.LastReply()
			if !ok {
				m.notice = "Nothing to copy yet"
				return m, nil
			}
			return m, m.copyReply(text)

		case "up", "down", "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if m.focus == focusInput {
			m.input, cmd = m.input.Update(msg)
			m.controller.OnInputChange(m.input.Value())
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case replyMsg:
		if m.controller.Deliver(msg.reply) {
			m.refresh()
		}

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Reply copied to clipboard"
		}

	default:
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start resets the surface after a submission and hands the turn to the
// runtime as a command, so the backend call happens off the update loop.
func (m Model) start(turn *conversation.Turn) (tea.Model, tea.Cmd) {
	if turn == nil {
		return m, nil
	}
	m.input.Reset()
	m.notice = ""
	if !m.controller.QuickRepliesVisible() {
		m.setFocus(focusInput)
	}
	m.layout()
	m.refresh()
	return m, runTurn(m.ctx, turn)
}

func runTurn(ctx context.Context, turn *conversation.Turn) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{reply: turn.Run(ctx)}
	}
}

func (m Model) copyReply(text string) tea.Cmd {
	copyFn := m.opts.Copy
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}

// moveFocus cycles through the input and the visible quick replies
func (m *Model) moveFocus(delta int) {
	stops := 1
	if m.controller.QuickRepliesVisible() {
		stops += len(m.controller.QuickReplies())
	}
	m.setFocus(((m.focus+delta)%stops + stops) % stops)
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	if focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) viewportWidth() int {
	return m.contentWidth() - 4
}

// layout sizes the input and the message viewport from the chrome that is
// currently visible. The viewport takes all remaining height once expanded.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	width := m.contentWidth()
	m.input.Width = width - 6

	chrome := lipgloss.Height(m.renderTopBar(width)) +
		lipgloss.Height(m.renderInput(width)) +
		lipgloss.Height(m.renderStatusBar(width)) +
		1 // notice line
	if m.showIntro() {
		chrome += lipgloss.Height(m.renderIntro(width))
	}
	if m.controller.QuickRepliesVisible() {
		chrome += lipgloss.Height(m.renderQuickReplies(width))
	}

	height := m.height - chrome - 2 // messages panel border
	if !m.controller.Expanded() && height > 6 {
		height = 6
	}
	if height < 3 {
		height = 3
	}
	m.viewport.Width = m.viewportWidth()
	m.viewport.Height = height
}

// refresh rebuilds the message list and scrolls to the newest message
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.controller.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.IsUser() {
			content.WriteString(userLabelStyle.Render("You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		} else {
			content.WriteString(assistantLabelStyle.Render(models.AssistantName) + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(m.replyText(i, msg.Text, bubbleWidth-4)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m *Model) replyText(index int, text string, width int) string {
	if !m.opts.Markdown {
		return text
	}
	if out, ok := m.rendered[index]; ok {
		return out
	}
	out := render.Reply(text, m.opts.Render.WithWidth(width))
	m.rendered[index] = out
	return out
}

func (m Model) showIntro() bool {
	return m.controller.Mode() == models.LayoutFull || !m.controller.Expanded()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	width := m.contentWidth()
	sections := []string{m.renderTopBar(width)}

	if m.showIntro() {
		sections = append(sections, m.renderIntro(width))
	}
	if m.controller.QuickRepliesVisible() {
		sections = append(sections, m.renderQuickReplies(width))
	}
	if m.controller.Len() > 0 {
		sections = append(sections, messagesAreaStyle.
			Width(width).
			Height(m.viewport.Height).
			Render(m.viewport.View()))
	}

	sections = append(sections, m.renderInput(width))
	sections = append(sections, noticeStyle.Render(m.notice))
	sections = append(sections, m.renderStatusBar(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTopBar(width int) string {
	bar := lipgloss.JoinHorizontal(
		lipgloss.Center,
		badgeStyle.Render(models.LogoLeft),
		headingStyle.Render(models.Heading),
		badgeStyle.Render(models.LogoRight),
	)
	return topBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

func (m Model) renderIntro(width int) string {
	return lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Width(width).Align(lipgloss.Center).Render(models.Title),
		subtitleStyle.Width(width).Align(lipgloss.Center).Render(models.Subtitle),
	)
}

func (m Model) renderQuickReplies(width int) string {
	var buttons []string
	for i, q := range m.controller.QuickReplies() {
		style := quickReplyStyle
		if m.focus == i+1 {
			style = quickReplyFocusedStyle
		}
		buttons = append(buttons, style.Render(q))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(row)
}

func (m Model) renderInput(width int) string {
	style := inputPanelStyle
	if m.focus == focusInput {
		style = inputPanelFocusedStyle
	}
	return style.Width(width).Render(m.input.View())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Tab", "Quick replies"},
		{"↑↓", "Scroll"},
		{"Ctrl+Y", "Copy reply"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until the user quits or ctx is done
func RunChat(ctx context.Context, controller *conversation.Controller, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(ctx, controller, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
