// Package status keeps the single transient message shown in the status line.
package status

import (
	"sync"
	"time"
)

// Level classifies a message for styling.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Message is a displayed status line.
type Message struct {
	Text     string
	Level    Level
	Shown    time.Time
	Deadline time.Time
}

// Remaining returns how long m stays visible after now.
func (m Message) Remaining(now time.Time) time.Duration {
	if d := m.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Notifier holds at most one message. A newer Show replaces the older
// message immediately; there is no queue.
type Notifier struct {
	mu      sync.Mutex
	current Message
	set     bool
	now     func() time.Time
}

// NewNotifier returns a Notifier using the wall clock.
func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

// Show replaces the displayed message. It is visible for duration.
func (n *Notifier) Show(text string, level Level, duration time.Duration) Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.clock()
	n.current = Message{
		Text:     text,
		Level:    level,
		Shown:    now,
		Deadline: now.Add(duration),
	}
	n.set = true
	return n.current
}

// Current returns the message if it has not expired yet.
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.set {
		return Message{}, false
	}
	if !n.clock().Before(n.current.Deadline) {
		n.current = Message{}
		n.set = false
		return Message{}, false
	}
	return n.current, true
}

// Clear removes the displayed message. Clearing twice is harmless.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Message{}
	n.set = false
}

func (n *Notifier) clock() time.Time {
	if n.now == nil {
		return time.Now()
	}
	return n.now()
}
