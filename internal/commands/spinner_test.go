package commands

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerLifecycle(t *testing.T) {
	var out syncBuffer
	s := newSpinner(&out, "Asking VistulaBot")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.finish()
	// A second finish must not block or panic
	s.stopOnce()

	got := out.String()
	if !strings.Contains(got, "Asking VistulaBot") {
		t.Errorf("spinner never drew its message: %q", got)
	}
	if !strings.HasSuffix(got, "\r\033[K\033[?25h") {
		t.Errorf("spinner should clear its line and restore the cursor: %q", got)
	}
}
