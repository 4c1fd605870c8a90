package kvstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File implements Backend with one file per key under a directory.
// Writes go through a temp file and a rename so readers never observe a
// partially written value.
type File struct {
	dir string
}

// NewFile returns a file backend rooted at dir.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// DefaultFileDir returns the default directory for the file backend.
func DefaultFileDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("kvstore: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, "pharmacert", "store"), nil
}

func (f *File) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.pathForKey(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kvstore: read %s: %w", key, err)
	}
	return data, nil
}

func (f *File) Set(key string, value []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("kvstore: failed to create directory %s: %w", f.dir, err)
	}

	tmp, err := os.CreateTemp(f.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return fmt.Errorf("kvstore: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}

	if err := os.Rename(tmpName, f.pathForKey(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	return nil
}

func (f *File) Close() error { return nil }

func (f *File) pathForKey(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key)+".json")
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "default"
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}
