package client

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yirassssindaba-coder/asset-inventory/internal/config"
	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/logger"
)

func newTestClient(url string, retries int) *Client {
	cfg := config.NewConfig().Agent
	cfg.Retries = retries
	c := New(cfg, nil)
	c.URL = url
	c.Backoff = time.Millisecond
	return c
}

func TestURL(t *testing.T) {
	cfg := config.AgentConfig{Host: "10.0.0.5", Port: 9090, Path: "api/assets"}
	assert.Equal(t, "http://10.0.0.5:9090/api/assets", URL(cfg))

	cfg = config.AgentConfig{Host: "::1", Port: 8080, Path: "/x"}
	assert.Equal(t, "http://[::1]:8080/x", URL(cfg))
}

func TestPostJSON(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 0).PostJSON(context.Background(), `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, `{"ok":true}`, resp.Body)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"a":1}`, gotBody)
	assert.Equal(t, "application/json", gotType)
}

func TestDeliver_RetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	var warn bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "app.log")
	c := newTestClient(srv.URL, 3)
	c.Warn = &warn
	c.Log = logger.New(logPath)
	c.Log.SetConsole(io.Discard)

	resp, err := c.Deliver(context.Background(), "{}")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	lines := strings.Split(strings.TrimSpace(warn.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[WARN] attempt 1 failed: HTTP 503 body=busy", lines[0])
	assert.Equal(t, "[WARN] attempt 2 failed: HTTP 503 body=busy", lines[1])

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	logLines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, logLines, 3)
	for _, line := range logLines {
		assert.True(t, strings.HasPrefix(line, "["), line)
	}
	assert.True(t, strings.HasSuffix(logLines[1], "[WARN][agent] attempt 1 failed: HTTP 503 body=busy"))
}

func TestBackoffWait(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", 0)
	c.Backoff = time.Second

	assert.Equal(t, time.Second, c.backoffWait(0))
	assert.Equal(t, 4*time.Second, c.backoffWait(2))
	assert.Equal(t, time.Second<<maxBackoffShift, c.backoffWait(maxBackoffShift))
	for _, attempt := range []int{maxBackoffShift + 1, 63, 64, 1000} {
		assert.Equal(t, time.Second<<maxBackoffShift, c.backoffWait(attempt), "attempt %d", attempt)
	}
}

func TestDeliver_GivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 2).Deliver(context.Background(), "{}")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDeliveryFailed))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDeliver_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, 1).Deliver(context.Background(), "{}")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeTransport, appErr.Type)
}

func TestDeliver_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	c.Backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Deliver(ctx, "{}")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}
