package vfs

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// logHandler renders records with slog's text format and writes each one to
// SQLite's log at the record's level.
type logHandler struct {
	logger *Logger
	state  *logHandlerState
	inner  slog.Handler
}

type logHandlerState struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func newLogHandler(logger *Logger, opts *slog.HandlerOptions) *logHandler {
	state := &logHandlerState{}

	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelDebug}
	}

	// Entries are written without the time attribute.
	replace := opts.ReplaceAttr
	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}

		if replace != nil {
			return replace(groups, a)
		}

		return a
	}

	return &logHandler{
		logger: logger,
		state:  state,
		inner:  slog.NewTextHandler(&state.buffer, opts),
	}
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	h.state.mutex.Lock()
	defer h.state.mutex.Unlock()

	h.state.buffer.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	h.logger.Log(levelFromSlog(r.Level), h.state.buffer.String())

	return nil
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{logger: h.logger, state: h.state, inner: h.inner.WithAttrs(attrs)}
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	return &logHandler{logger: h.logger, state: h.state, inner: h.inner.WithGroup(name)}
}
