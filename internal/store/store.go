// Package store keeps asset records as JSON lines in a single file.
package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/formatter"
	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
	"github.com/yirassssindaba-coder/asset-inventory/internal/parser"
)

// FileStore is an append-only JSONL file. It is safe for concurrent use
// within one process.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by path. Nothing is created until the first
// append.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Append writes line followed by a newline, creating parent directories
// as needed.
func (s *FileStore) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewStoreError("failed to create store directory", unavailable(err))
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.NewStoreError("failed to open store", unavailable(err))
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return errors.NewStoreError("failed to append record", unavailable(err))
	}
	if err := f.Close(); err != nil {
		return errors.NewStoreError("failed to close store", unavailable(err))
	}
	return nil
}

// Lines returns every non-empty line in file order. A store that has never
// been written reads as empty.
func (s *FileStore) Lines() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreError("failed to open store", unavailable(err))
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewStoreError("failed to read store", unavailable(err))
	}
	return lines, nil
}

// AppendRecord stores the compact serialization of v as one line.
func (s *FileStore) AppendRecord(v models.Value) error {
	return s.Append(formatter.Stringify(v, false))
}

// Records parses every stored line. Lines that no longer parse are left
// out and counted in skipped.
func (s *FileStore) Records() (records []models.Value, skipped int, err error) {
	lines, err := s.Lines()
	if err != nil {
		return nil, 0, err
	}
	records = make([]models.Value, 0, len(lines))
	for _, line := range lines {
		v, perr := parser.ParseString(line)
		if perr != nil {
			skipped++
			continue
		}
		records = append(records, v)
	}
	return records, skipped, nil
}

// unavailable tags an I/O failure with errors.ErrStoreUnavailable while
// keeping the cause reachable.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
}
