// Package notify flags overdue tasks exactly once.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/tasks"
)

const DefaultInterval = 60 * time.Second

// Notification is the one-shot signal raised for a due task.
type Notification struct {
	TaskID     string    `json:"taskId"`
	Title      string    `json:"title"`
	ExpiryDate string    `json:"expiryDate"`
	At         time.Time `json:"at"`
}

// Sink delivers notifications to the user. A returned error leaves the task
// unflagged so the next scan retries it.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// TaskStore is the part of *tasks.Store the notifier depends on.
type TaskStore interface {
	Due(now time.Time) []model.Task
	MarkNotified(ctx context.Context, id string) (model.Task, error)
}

type Notifier struct {
	store    TaskStore
	sink     Sink
	interval time.Duration
	now      func() time.Time
	log      log.FieldLogger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Notifier)

func WithInterval(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.interval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

func WithLogger(l log.FieldLogger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.log = l
		}
	}
}

func New(store TaskStore, sink Sink, opts ...Option) *Notifier {
	n := &Notifier{
		store:    store,
		sink:     sink,
		interval: DefaultInterval,
		now:      time.Now,
		log:      log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) Interval() time.Duration { return n.interval }

// Scan notifies every due, unnotified task once and flags it.
func (n *Notifier) Scan(ctx context.Context) []Notification {
	now := n.now()
	var sent []Notification
	for _, t := range n.store.Due(now) {
		if ctx.Err() != nil {
			break
		}
		note := Notification{TaskID: t.ID, Title: t.Title, ExpiryDate: t.ExpiryDate, At: now}
		fields := log.Fields{"task": t.ID, "expiryDate": t.ExpiryDate}
		if err := n.sink.Notify(ctx, note); err != nil {
			n.log.WithError(err).WithFields(fields).Warn("failed to deliver notification; will retry")
			continue
		}
		if _, err := n.store.MarkNotified(ctx, t.ID); err != nil {
			var nf *tasks.NotFoundError
			if errors.As(err, &nf) {
				n.log.WithFields(fields).Debug("task removed before it could be flagged")
			} else {
				n.log.WithError(err).WithFields(fields).Error("failed to flag task as notified")
			}
			continue
		}
		n.log.WithFields(fields).Info("task due")
		sent = append(sent, note)
	}
	return sent
}

// Start scans immediately and then every interval until Stop is called or ctx ends.
// Calling Start on a running notifier is a no-op.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.done = make(chan struct{})
	go n.run(ctx, n.done)
}

func (n *Notifier) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.Scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.Scan(ctx)
		}
	}
}

// Stop cancels the loop and waits for it to exit.
func (n *Notifier) Stop() {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel, n.done = nil, nil
	n.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
