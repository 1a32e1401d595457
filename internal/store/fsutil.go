package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// FileKV stores each key as <dir>/<key>.json.
type FileKV struct {
	Dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	dir = filepath.Clean(strings.TrimSpace(dir))
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &FileKV{Dir: dir}, nil
}

func (s *FileKV) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Dir, key+".json"), nil
}

func (s *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (s *FileKV) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ensureDir(s.Dir); err != nil {
		return err
	}
	// Unique temp names keep a concurrent CLI and TUI from clobbering each other's writes.
	return atomicWriteFile(s.Dir, filepath.Base(p)+".*.tmp", p, value, 0o644)
}

func (s *FileKV) Close() error { return nil }
