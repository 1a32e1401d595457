package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KV is the durable key/value storage a task collection is mirrored to.
//
// Get reports ok=false (and a nil error) when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

const defaultRedisPrefix = "tasklist"

// Options selects and configures a backend for Open.
type Options struct {
	Backend     Backend
	Dir         string // sqlite + file
	RedisAddr   string
	RedisPrefix string
}

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendSQLite, nil
	case BackendSQLite, BackendFile, BackendRedis, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend: %s (expected sqlite|file|redis|memory)", s)
	}
}

// Open returns a ready-to-use KV for opts. The caller owns the returned KV and must Close it.
func Open(ctx context.Context, opts Options) (KV, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendSQLite
	}
	switch backend {
	case BackendSQLite:
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, errors.New("sqlite backend: missing data dir")
		}
		return OpenSQLite(ctx, opts.Dir)
	case BackendFile:
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, errors.New("file backend: missing data dir")
		}
		return NewFileKV(opts.Dir)
	case BackendRedis:
		prefix := strings.TrimSpace(opts.RedisPrefix)
		if prefix == "" {
			prefix = defaultRedisPrefix
		}
		return OpenRedis(ctx, opts.RedisAddr, prefix)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}

// DefaultDir returns the data directory used when neither a flag, env var nor config sets one.
func DefaultDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
