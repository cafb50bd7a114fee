package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apierrors "github.com/vistula/vistulabot/internal/errors"
)

// Turn is one submitted question waiting for its reply
type Turn struct {
	ID       uuid.UUID
	Seq      uint64 // submission order, for diagnostics only
	Question string

	asker    Asker
	fallback string
	logger   zerolog.Logger
}

// Reply is the settled outcome of a turn
type Reply struct {
	TurnID uuid.UUID
	Seq    uint64
	Text   string
	// Err is the backend failure that was replaced by the fallback text.
	Err error
}

// Failed reports whether the reply is the fallback text
func (r Reply) Failed() bool {
	return r.Err != nil
}

// Run performs the backend call. It never fails: any error is logged and
// replaced by the fallback text. Run does not touch controller state and
// may be called from any goroutine.
func (t *Turn) Run(ctx context.Context) Reply {
	start := time.Now()
	reply := Reply{TurnID: t.ID, Seq: t.Seq}

	answer, err := t.ask(ctx)
	if err != nil {
		t.logger.Error().
			Err(err).
			Str("turn_id", t.ID.String()).
			Uint64("seq", t.Seq).
			Str("reason", string(apierrors.GetReason(err))).
			Int("status", apierrors.GetHTTPStatus(err)).
			Dur("elapsed", time.Since(start)).
			Msg("error connecting to backend")
		reply.Text = t.fallback
		reply.Err = err
		return reply
	}

	t.logger.Debug().
		Str("turn_id", t.ID.String()).
		Uint64("seq", t.Seq).
		Int("answer_len", len(answer)).
		Dur("elapsed", time.Since(start)).
		Msg("answer received")
	reply.Text = answer
	return reply
}

// ask turns a panicking Asker into an error so the turn still settles.
func (t *Turn) ask(ctx context.Context) (answer string, err error) {
	if t.asker == nil {
		return "", fmt.Errorf("no backend configured")
	}
	defer func() {
		if r := recover(); r != nil {
			answer, err = "", fmt.Errorf("backend call panicked: %v", r)
		}
	}()
	return t.asker.Ask(ctx, t.Question)
}
