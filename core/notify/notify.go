// Package notify holds the transient notifications (toasts) shown to a browser.
package notify

import "sync"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier reports user visible outcomes.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Queue is a Notifier buffering notifications until they are drained by the next rendered page.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

var _ Notifier = (*Queue)(nil)

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) push(level Level, msg string) {
	q.mu.Lock()
	q.items = append(q.items, Notification{Level: level, Message: msg})
	q.mu.Unlock()
}

func (q *Queue) Success(msg string) { q.push(LevelSuccess, msg) }
func (q *Queue) Error(msg string)   { q.push(LevelError, msg) }
func (q *Queue) Info(msg string)    { q.push(LevelInfo, msg) }

// Peek returns the pending notifications without removing them.
func (q *Queue) Peek() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := make([]Notification, len(q.items))
	copy(items, q.items)
	return items
}

// Drain returns and removes the pending notifications.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
