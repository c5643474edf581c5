package store

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
)

func TestLines_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "none.jsonl"))
	lines, err := s.Lines()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAppend_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "assets.jsonl")
	s := New(path)

	require.NoError(t, s.Append(`{"a":1}`))
	require.NoError(t, s.Append(`{"a":2}`))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", string(data))
}

func TestLines_SkipsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("one\n\n\r\ntwo\r\nthree"), 0o644))

	lines, err := New(path).Lines()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.jsonl")
	s := New(path)

	v := models.ObjectValue(map[string]models.Value{
		"hostname": models.StringValue("web-01"),
		"cpu":      models.NumberValue(4),
	})
	require.NoError(t, s.AppendRecord(v))
	require.NoError(t, s.Append("{broken"))
	require.NoError(t, s.AppendRecord(models.ArrayValue()))

	lines, err := s.Lines()
	require.NoError(t, err)
	assert.Equal(t, `{"cpu":4,"hostname":"web-01"}`, lines[0])

	records, skipped, err := s.Records()
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.True(t, models.Equal(v, records[0]))
	assert.True(t, records[1].IsArray())
}

func TestAppend_Concurrent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "assets.jsonl"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(fmt.Sprintf(`{"n":%d}`, i)))
		}(i)
	}
	wg.Wait()

	records, skipped, err := s.Records()
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, records, 50)
}

func TestAppend_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := New(filepath.Join(blocker, "assets.jsonl")).Append("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store")
	assert.True(t, stderrors.Is(err, errors.ErrStoreUnavailable))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeStore, appErr.Type)
}

func TestLines_UnreadablePath(t *testing.T) {
	_, err := New(t.TempDir()).Lines()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrStoreUnavailable))
}
