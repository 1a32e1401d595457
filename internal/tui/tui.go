package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"tasklist-cli/internal/notify"
	"tasklist-cli/internal/tasks"
)

type Options struct {
	// NotifyInterval is the due-date scan interval (default 60s).
	NotifyInterval time.Duration
	Logger         log.FieldLogger
}

var errClosed = errors.New("tui closed")

// programSink forwards notifications to the program through send until done is closed.
// A notification that may not have reached the program reports errClosed, which leaves
// the task unflagged so the next session reports it.
func programSink(done <-chan struct{}, send func(tea.Msg)) notify.FuncSink {
	return func(ctx context.Context, n notify.Notification) error {
		select {
		case <-done:
			return errClosed
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		send(notificationMsg(n))
		select {
		case <-done:
			return errClosed
		default:
			return nil
		}
	}
}

// Run starts the interactive TUI on st. A notifier runs for the lifetime of the session
// and surfaces due tasks as toasts.
func Run(ctx context.Context, st *tasks.Store, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	// Send is a no-op once the program's context ends, so the sink watches the same context.
	progCtx, cancelProg := context.WithCancel(ctx)
	defer cancelProg()

	m := newAppModel(ctx, st, time.Now)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(progCtx))

	sink := programSink(progCtx.Done(), p.Send)
	n := notify.New(st, sink, notify.WithInterval(opts.NotifyInterval), notify.WithLogger(opts.Logger))
	n.Start(ctx)

	_, err := p.Run()
	cancelProg()
	n.Stop()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
