// Package testlog provides a log handler for unit tests.
package testlog

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/log"
)

// Testing interface to log to. Some functions are marked as Helper function to log the call site accurately.
// Standard Go testing.TB implements this, as well as Hive and other Go-like test frameworks.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
	Cleanup(func())
}

var _ Testing = (testing.TB)(nil)

// tWriter buffers a log line and hands it to the test framework, so output is attributed to
// the test that produced it.
type tWriter struct {
	t  Testing
	mu sync.Mutex
}

func (w *tWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.t.Helper()
	w.t.Logf("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Logger returns a logger which logs to the unit test log of t.
func Logger(t Testing, level slog.Level) log.Logger {
	return log.NewLogger(log.NewTerminalHandlerWithLevel(&tWriter{t: t}, level, false))
}

// CapturingHandler records log records in memory so tests can assert on them.
type CapturingHandler struct {
	handler slog.Handler
	mu      *sync.Mutex
	buf     *bytes.Buffer
}

// CaptureLogger returns a logger whose logfmt output can be inspected with the returned handler.
func CaptureLogger(t Testing, level slog.Level) (log.Logger, *CapturingHandler) {
	buf := new(bytes.Buffer)
	mu := new(sync.Mutex)
	h := &CapturingHandler{
		handler: log.LogfmtHandlerWithLevel(&lockedWriter{mu: mu, buf: buf}, level),
		mu:      mu,
		buf:     buf,
	}
	t.Cleanup(func() {
		t.Logf("captured logs:\n%s", h.String())
	})
	return log.NewLogger(h.handler), h
}

func (h *CapturingHandler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.String()
}

// Lines returns the captured log lines containing the given message.
func (h *CapturingHandler) Lines(msg string) []string {
	var out []string
	for _, line := range strings.Split(h.String(), "\n") {
		if strings.Contains(line, msg) {
			out = append(out, line)
		}
	}
	return out
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
