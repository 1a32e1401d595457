package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"tasklist-cli/internal/store"
)

// recordingKV wraps a MemoryKV, counting writes and optionally failing them.
type recordingKV struct {
	*store.MemoryKV

	mu       sync.Mutex
	writes   int
	failNext error
}

func newRecordingKV() *recordingKV {
	return &recordingKV{MemoryKV: store.NewMemoryKV()}
}

func (k *recordingKV) Set(ctx context.Context, key string, value []byte) error {
	k.mu.Lock()
	if err := k.failNext; err != nil {
		k.failNext = nil
		k.mu.Unlock()
		return err
	}
	k.writes++
	k.mu.Unlock()
	return k.MemoryKV.Set(ctx, key, value)
}

func (k *recordingKV) Writes() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.writes
}

var errDiskFull = errors.New("disk full")

// fixedNow is mid-morning local time so "today" is unambiguous.
var fixedNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.Local)

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, kv store.KV) *Store {
	t.Helper()
	s := New(kv,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
		WithLogger(quietLogger()),
	)
	s.Load(context.Background())
	return s
}
