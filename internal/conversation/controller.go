// Package conversation implements the conversation controller: the message
// log, the input buffer and the layout state of one chat session.
//
// The controller is driven from a single goroutine (the UI event loop).
// Submitting a question mutates state immediately and hands back a Turn;
// running the Turn performs the backend call off the loop, and the
// resulting Reply is delivered back on the loop. Replies are appended in
// the order they are delivered, which is not necessarily the order the
// questions were submitted.
package conversation

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vistula/vistulabot/internal/models"
)

// Asker sends one question to the backend
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskerFunc adapts a function to the Asker interface
type AskerFunc func(ctx context.Context, question string) (string, error)

// Ask calls f
func (f AskerFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// AppendHook is called after every append to the message log
type AppendHook func(index int, msg models.Message)

// Controller owns the state of one chat session.
// It is not safe for concurrent use.
type Controller struct {
	asker        Asker
	mode         models.LayoutMode
	fallback     string
	quickReplies []string
	logger       zerolog.Logger
	hooks        []AppendHook

	messages []models.Message
	input    string
	layout   models.LayoutState
	nextSeq  uint64
	inFlight map[uuid.UUID]struct{}
}

// Option configures a Controller
type Option func(*Controller)

// WithLayoutMode selects collapsible or full layout
func WithLayoutMode(mode models.LayoutMode) Option {
	return func(c *Controller) {
		c.mode = mode
	}
}

// WithFallbackReply sets the text appended when the backend fails
func WithFallbackReply(text string) Option {
	return func(c *Controller) {
		c.fallback = text
	}
}

// WithQuickReplies sets the preset questions
func WithQuickReplies(questions []string) Option {
	return func(c *Controller) {
		c.quickReplies = lo.Filter(questions, func(q string, _ int) bool {
			return strings.TrimSpace(q) != ""
		})
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithAppendHook registers a hook fired after every append
func WithAppendHook(hook AppendHook) Option {
	return func(c *Controller) {
		if hook != nil {
			c.hooks = append(c.hooks, hook)
		}
	}
}

// New creates a controller that sends questions through asker
func New(asker Asker, opts ...Option) *Controller {
	c := &Controller{
		asker:        asker,
		mode:         models.LayoutCollapsible,
		fallback:     models.DefaultFallbackReply,
		quickReplies: models.DefaultQuickReplies(),
		logger:       zerolog.Nop(),
		inFlight:     make(map[uuid.UUID]struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.layout = models.LayoutCollapsed
	if c.mode == models.LayoutFull {
		c.layout = models.LayoutExpanded
	}
	c.logger = c.logger.With().Str("component", "conversation").Logger()

	return c
}

// Input returns the current input buffer
func (c *Controller) Input() string {
	return c.input
}

// OnInputChange replaces the input buffer verbatim
func (c *Controller) OnInputChange(value string) {
	c.input = value
}

// OnKeyCommit submits the input buffer when key is the commit key
func (c *Controller) OnKeyCommit(key string) (*Turn, bool) {
	if key != models.CommitKey {
		return nil, false
	}
	return c.Submit("")
}

// Submit appends a user message and returns the turn that will fetch its
// reply. An empty text submits the input buffer instead. Blank questions
// are ignored: nothing is appended, the buffer is kept and no turn is made.
func (c *Controller) Submit(text string) (*Turn, bool) {
	question := text
	if question == "" {
		question = c.input
	}
	if strings.TrimSpace(question) == "" {
		return nil, false
	}

	first := len(c.messages) == 0
	c.append(models.UserMessage(question))
	c.input = ""
	if first && c.layout == models.LayoutCollapsed {
		c.layout = models.LayoutExpanded
		c.logger.Debug().Msg("layout expanded")
	}

	c.nextSeq++
	turn := &Turn{
		ID:       uuid.New(),
		Seq:      c.nextSeq,
		Question: question,
		asker:    c.asker,
		fallback: c.fallback,
		logger:   c.logger,
	}
	c.inFlight[turn.ID] = struct{}{}

	c.logger.Debug().
		Str("turn_id", turn.ID.String()).
		Uint64("seq", turn.Seq).
		Int("pending", len(c.inFlight)).
		Msg("question submitted")

	return turn, true
}

// Deliver appends the ai message for a settled turn. Replies for turns that
// are unknown or already delivered are dropped, so every turn yields exactly
// one ai message. It reports whether the reply was appended.
func (c *Controller) Deliver(reply Reply) bool {
	if _, ok := c.inFlight[reply.TurnID]; !ok {
		c.logger.Warn().
			Str("turn_id", reply.TurnID.String()).
			Msg("dropping reply for unknown or settled turn")
		return false
	}
	delete(c.inFlight, reply.TurnID)

	c.append(models.AIMessage(reply.Text))
	return true
}

// Resolve runs the turn and delivers its reply on the calling goroutine
func (c *Controller) Resolve(ctx context.Context, turn *Turn) Reply {
	reply := turn.Run(ctx)
	c.Deliver(reply)
	return reply
}

func (c *Controller) append(msg models.Message) {
	c.messages = append(c.messages, msg)
	index := len(c.messages) - 1
	for _, hook := range c.hooks {
		hook(index, msg)
	}
}

// Messages returns a copy of the message log
func (c *Controller) Messages() []models.Message {
	return append([]models.Message(nil), c.messages...)
}

// Len returns the number of messages in the log
func (c *Controller) Len() int {
	return len(c.messages)
}

// Pending returns the number of submitted turns without a delivered reply
func (c *Controller) Pending() int {
	return len(c.inFlight)
}

// Mode returns the configured layout mode
func (c *Controller) Mode() models.LayoutMode {
	return c.mode
}

// Layout returns the current layout state
func (c *Controller) Layout() models.LayoutState {
	return c.layout
}

// Expanded reports whether the full chat view is shown
func (c *Controller) Expanded() bool {
	return c.layout == models.LayoutExpanded
}

// QuickReplies returns the preset questions
func (c *Controller) QuickReplies() []string {
	return append([]string(nil), c.quickReplies...)
}

// QuickRepliesVisible reports whether the preset questions are offered.
// They disappear once a collapsible layout expands.
func (c *Controller) QuickRepliesVisible() bool {
	if len(c.quickReplies) == 0 {
		return false
	}
	return c.mode == models.LayoutFull || c.layout == models.LayoutCollapsed
}

// LastReply returns the newest ai message text
func (c *Controller) LastReply() (string, bool) {
	msg, _, ok := lo.FindLastIndexOf(c.messages, func(m models.Message) bool {
		return m.Sender == models.SenderAI
	})
	if !ok {
		return "", false
	}
	return msg.Text, true
}
