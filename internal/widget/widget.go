// Package widget holds the chat widget's state: the draft being typed and the
// append-only conversation log.
package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/echomind/echomind/internal/model/chat"
)

// FallbackReply is appended in place of a reply whenever the request fails.
const FallbackReply = "Sorry, I ran into an error. Please try again."

// Sender delivers a submitted draft to the backend and returns the reply text.
type Sender interface {
	Send(ctx context.Context, text string) (string, error)
}

// Widget owns one ephemeral conversation. All methods are safe for concurrent use.
type Widget struct {
	sender   Sender
	logger   zerolog.Logger
	onChange func()

	mu       sync.Mutex
	draft    string
	log      []chat.Message
	inFlight int
	closed   bool

	pending sync.WaitGroup
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger attaches a logger; swallowed request failures are reported there.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithOnChange registers a callback invoked after every log append.
// It runs outside the widget lock, possibly from a background goroutine.
func WithOnChange(fn func()) Option {
	return func(w *Widget) {
		w.onChange = fn
	}
}

// New creates a widget with an empty draft and an empty log.
func New(sender Sender, opts ...Option) *Widget {
	w := &Widget{
		sender: sender,
		logger: zerolog.Nop(),
		log:    make([]chat.Message, 0, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetDraft replaces the draft text.
func (w *Widget) SetDraft(text string) {
	w.mu.Lock()
	w.draft = text
	w.mu.Unlock()
}

// Draft returns the current draft text.
func (w *Widget) Draft() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Messages returns a copy of the conversation log in display order.
func (w *Widget) Messages() []chat.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	copied := make([]chat.Message, len(w.log))
	copy(copied, w.log)
	return copied
}

// InFlight reports how many submitted drafts are still awaiting a reply.
func (w *Widget) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Submit sends the current draft. A blank draft is a no-op and returns (nil, false).
//
// Otherwise the user message is in the log and the draft is empty by the time
// Submit returns. The request runs in the background and the returned channel
// is closed once its assistant message (reply or FallbackReply) has been
// appended, or dropped because the widget was closed. Replies are appended in
// completion order.
func (w *Widget) Submit(ctx context.Context) (<-chan struct{}, bool) {
	w.mu.Lock()
	text := w.draft
	if w.closed || strings.TrimSpace(text) == "" {
		w.mu.Unlock()
		return nil, false
	}
	w.log = append(w.log, chat.UserMessage(text))
	w.draft = ""
	w.inFlight++
	w.pending.Add(1)
	w.mu.Unlock()

	w.notify()

	done := make(chan struct{})
	go w.exchange(ctx, text, done)
	return done, true
}

func (w *Widget) exchange(ctx context.Context, text string, done chan<- struct{}) {
	defer w.pending.Done()
	defer close(done)

	reply, err := w.sender.Send(ctx, text)
	if err != nil {
		w.logger.Warn().Err(err).Msg("chat request failed, showing fallback reply")
		reply = FallbackReply
	}

	w.mu.Lock()
	w.inFlight--
	if w.closed {
		w.mu.Unlock()
		w.logger.Debug().Msg("widget closed, dropping late reply")
		return
	}
	w.log = append(w.log, chat.AssistantMessage(reply))
	w.mu.Unlock()

	w.notify()
}

// Close tears the widget down. In-flight requests are not cancelled, but their
// replies no longer touch the log, and further submits are ignored.
func (w *Widget) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Wait blocks until every submitted request has resolved.
func (w *Widget) Wait() {
	w.pending.Wait()
}

func (w *Widget) notify() {
	if w.onChange != nil {
		w.onChange()
	}
}
