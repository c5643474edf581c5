// Package client delivers asset records to the collection server.
package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yirassssindaba-coder/asset-inventory/internal/config"
	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/logger"
)

const logTag = "agent"

// maxBackoffShift caps the exponential wait at Backoff<<maxBackoffShift.
const maxBackoffShift = 10

// Response is what the server answered to one POST.
type Response struct {
	Status int
	Body   string
}

// OK reports a 2xx status.
func (r Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Client posts JSON documents with retries.
type Client struct {
	URL     string
	Retries int
	Timeout time.Duration
	// Backoff is the unit of the exponential wait between attempts:
	// attempt n waits Backoff<<n, capped at Backoff<<maxBackoffShift.
	Backoff time.Duration

	HTTP *http.Client
	Log  *logger.Logger
	// Warn, when set, receives a "[WARN] ..." line per failed attempt.
	Warn io.Writer
}

// New builds a client for cfg. cfg is expected to be normalized.
func New(cfg config.AgentConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		URL:     URL(cfg),
		Retries: cfg.Retries,
		Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		Backoff: time.Second,
		HTTP:    &http.Client{},
		Log:     log,
	}
}

// URL joins the agent target into http://host:port/path.
func URL(cfg config.AgentConfig) string {
	path := cfg.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)) + path
}

// PostJSON sends body once. A non-2xx answer is not an error; err is set
// only when no answer arrived.
func (c *Client) PostJSON(ctx context.Context, body string) (Response, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(body))
	if err != nil {
		return Response{}, errors.NewTransportError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Response{}, errors.NewTransportError("request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{Status: resp.StatusCode}, errors.NewTransportError("failed to read response", err)
	}
	return Response{Status: resp.StatusCode, Body: string(data)}, nil
}

// Deliver posts body up to Retries+1 times, waiting Backoff, 2*Backoff,
// 4*Backoff... between attempts. It returns the first 2xx response, or
// the last response and an error wrapping errors.ErrDeliveryFailed.
func (c *Client) Deliver(ctx context.Context, body string) (Response, error) {
	c.Log.Infof(logTag, "sending asset payload to %s", c.URL)

	var last Response
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		last, lastErr = c.PostJSON(ctx, body)
		if lastErr == nil && last.OK() {
			return last, nil
		}

		msg := fmt.Sprintf("attempt %d failed: ", attempt+1)
		if lastErr != nil {
			msg += lastErr.Error()
		} else {
			msg += fmt.Sprintf("HTTP %d body=%s", last.Status, strings.TrimSpace(last.Body))
		}
		c.Log.Warn(logTag, msg)
		if c.Warn != nil {
			fmt.Fprintf(c.Warn, "[WARN] %s\n", msg)
		}

		if attempt == c.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return last, errors.NewTransportError("delivery cancelled", ctx.Err())
		case <-time.After(c.backoffWait(attempt)):
		}
	}

	return last, errors.NewTransportError(
		fmt.Sprintf("gave up after %d attempts", c.Retries+1),
		errors.ErrDeliveryFailed,
	)
}

// backoffWait is the pause after the given zero-based attempt.
func (c *Client) backoffWait(attempt int) time.Duration {
	return c.Backoff << min(attempt, maxBackoffShift)
}
