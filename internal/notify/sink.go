package notify

import (
	"context"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"tasklist-cli/internal/format"
)

// FuncSink adapts a function to Sink.
type FuncSink func(ctx context.Context, n Notification) error

func (f FuncSink) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// LogSink reports notifications through logrus at warn level.
type LogSink struct {
	Log log.FieldLogger
}

func (s LogSink) Notify(_ context.Context, n Notification) error {
	l := s.Log
	if l == nil {
		l = log.StandardLogger()
	}
	l.WithFields(log.Fields{"task": n.TaskID, "expiryDate": n.ExpiryDate}).Warnf("task due: %s", n.Title)
	return nil
}

// WriterSink writes one {"data": notification} envelope per notification.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	format string
	pretty bool
}

func NewWriterSink(w io.Writer, format string, pretty bool) *WriterSink {
	return &WriterSink{w: w, format: format, pretty: pretty}
}

func (s *WriterSink) Notify(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return format.Write(s.w, map[string]any{"data": n}, s.format, s.pretty)
}
