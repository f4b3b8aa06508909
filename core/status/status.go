// Package status carries human-readable progress and error messages from the
// orchestrator to whoever observes a session, plus a busy flag.
//
// Notifications are fire-and-forget. A Channel is injected into the orchestrator
// at construction and lives as long as the session.
package status

import (
	"sync"

	"go.uber.org/zap"
)

// Channel receives progress notifications.
type Channel interface {
	Publish(message string, isError bool)
	SetBusy(busy bool)
}

// Message is a published notification.
type Message struct {
	Text    string `json:"text"`
	IsError bool   `json:"is_error"`
}

// Logger forwards notifications to a zap logger.
type Logger struct {
	log *zap.Logger
}

// NewLogger creates a Channel that logs every notification.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Publish(message string, isError bool) {
	if isError {
		l.log.Error(message)
		return
	}
	l.log.Info(message)
}

func (l *Logger) SetBusy(busy bool) {
	l.log.Debug("Busy state changed", zap.Bool("busy", busy))
}

// Bus fans notifications out to buffered subscriber channels. A subscriber that
// falls behind misses messages instead of blocking the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[chan Message]struct{}
	busy   bool
	size   int
	closed bool
}

// NewBus creates a Bus whose subscriber channels hold size messages.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 64
	}
	return &Bus{subs: make(map[chan Message]struct{}), size: size}
}

// Subscribe returns a channel of messages and a function that ends the subscription.
// The channel is closed when the subscription ends or the Bus is closed.
func (b *Bus) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, b.size)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs[ch] = struct{}{}
	}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
}

func (b *Bus) Publish(message string, isError bool) {
	msg := Message{Text: message, IsError: isError}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (b *Bus) SetBusy(busy bool) {
	b.mu.Lock()
	b.busy = busy
	b.mu.Unlock()
}

// Close ends every subscription. Later subscribers get a closed channel and
// publishing becomes a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// Busy reports the last busy flag.
func (b *Bus) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// Recorder keeps every notification in memory. It backs HTTP responses and tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
	BusyLog  []bool
}

func (r *Recorder) Publish(message string, isError bool) {
	r.mu.Lock()
	r.Messages = append(r.Messages, Message{Text: message, IsError: isError})
	r.mu.Unlock()
}

func (r *Recorder) SetBusy(busy bool) {
	r.mu.Lock()
	r.BusyLog = append(r.BusyLog, busy)
	r.mu.Unlock()
}

// Errors returns the text of every error notification.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		if m.IsError {
			out = append(out, m.Text)
		}
	}
	return out
}

// Multi publishes to several channels in order.
type Multi []Channel

func (m Multi) Publish(message string, isError bool) {
	for _, c := range m {
		c.Publish(message, isError)
	}
}

func (m Multi) SetBusy(busy bool) {
	for _, c := range m {
		c.SetBusy(busy)
	}
}
