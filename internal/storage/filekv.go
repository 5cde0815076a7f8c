package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// kvFile is the on-disk layout of the file backend.
type kvFile struct {
	Version string            `yaml:"version"`
	Values  map[string]string `yaml:"values"`
}

// fileKVStore keeps every key in one YAML document. Each operation re-reads
// the file under an exclusive flock so concurrent pomotask processes (TUI and
// MCP server) see each other's writes.
type fileKVStore struct {
	path string
}

// NewFileKVStore creates a KVStore backed by the YAML file at path. The file
// and its directory are created on first write.
func NewFileKVStore(path string) KVStore {
	return &fileKVStore{path: path}
}

func (s *fileKVStore) lockPath() string {
	return s.path + ".lock"
}

func (s *fileKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var (
		value string
		ok    bool
	)
	err := s.withLock(func() error {
		f, err := s.load()
		if err != nil {
			return err
		}
		value, ok = f.Values[key]
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("getting %q: %w", key, err)
	}
	return value, ok, nil
}

func (s *fileKVStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.withLock(func() error {
		f, err := s.load()
		if err != nil {
			return err
		}
		f.Values[key] = value
		return s.save(f)
	})
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

func (s *fileKVStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.withLock(func() error {
		return s.save(kvFile{Version: "1.0", Values: map[string]string{}})
	})
	if err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	return nil
}

func (s *fileKVStore) Close() error { return nil }

func (s *fileKVStore) load() (kvFile, error) {
	f := kvFile{Version: "1.0", Values: map[string]string{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("reading store file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing store file: %w", err)
	}
	if f.Values == nil {
		f.Values = map[string]string{}
	}
	return f, nil
}

// save writes to a temp file and renames it over the store so a crash never
// leaves a truncated document.
func (s *fileKVStore) save(f kvFile) error {
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling store file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}

// withLock runs fn while holding an exclusive flock on the sidecar lock file.
func (s *fileKVStore) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	unlock, err := lockFile(s.lockPath())
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	return fn()
}
