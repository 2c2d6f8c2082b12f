package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LoggerConfig is the small set of options the CLI exposes as flags.
type LoggerConfig struct {
	Version string

	// If Out is nil, stderr is used so logs never mix with command output.
	Out io.Writer

	Level slog.Level
	JSON  bool // true => JSON output, false => text
}

// NewLogger creates a configured *slog.Logger.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler).With(
		slog.String("version", cfg.Version),
		slog.Int("pid", os.Getpid()),
	)
}

// ParseLevel maps a flag value to a slog level. Unknown values fall back to
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewNopLogger returns a logger that discards all log events.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

///////////////////////////////////////////////////////////////////////////////
// Context helpers
///////////////////////////////////////////////////////////////////////////////

type ctxKeyType struct{}

var ctxKey ctxKeyType

// WithLogger stores lg on ctx.
func WithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, lg)
}

// FromContext returns the logger stored on ctx, or fallback, or
// slog.Default().
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if lg, ok := ctx.Value(ctxKey).(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

///////////////////////////////////////////////////////////////////////////////
// Test handler
///////////////////////////////////////////////////////////////////////////////

type LoggedEntry struct {
	Level slog.Level
	Msg   string
	Attrs map[string]any
}

// testingT is the subset of *testing.T used for echoing entries.
type testingT interface {
	Logf(format string, args ...any)
}

// TestHandler captures structured entries for assertions.
type TestHandler struct {
	mu      *sync.Mutex
	entries *[]LoggedEntry
	attrs   []slog.Attr
	T       testingT
}

func NewTestHandler(t testingT) *TestHandler {
	return &TestHandler{mu: &sync.Mutex{}, entries: &[]LoggedEntry{}, T: t}
}

func (h *TestHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	e := LoggedEntry{Level: r.Level, Msg: r.Message, Attrs: map[string]any{}}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	*h.entries = append(*h.entries, e)
	h.mu.Unlock()

	if h.T != nil {
		h.T.Logf("LOG %v %s %v", e.Level, e.Msg, e.Attrs)
	}
	return nil
}

// WithAttrs shares the entry buffer with the parent so assertions see
// records from derived loggers too.
func (h *TestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TestHandler{
		mu:      h.mu,
		entries: h.entries,
		attrs:   append(append([]slog.Attr(nil), h.attrs...), attrs...),
		T:       h.T,
	}
}

func (h *TestHandler) WithGroup(string) slog.Handler { return h }

// Entries returns a copy of everything captured so far.
func (h *TestHandler) Entries() []LoggedEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LoggedEntry(nil), *h.entries...)
}

// Find returns the captured entries that match pred.
func (h *TestHandler) Find(pred func(LoggedEntry) bool) []LoggedEntry {
	out := make([]LoggedEntry, 0)
	for _, e := range h.Entries() {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// NewTestLogger returns a logger backed by a fresh TestHandler.
func NewTestLogger(t testingT) (*slog.Logger, *TestHandler) {
	th := NewTestHandler(t)
	return slog.New(th), th
}

var _ slog.Handler = (*TestHandler)(nil)
