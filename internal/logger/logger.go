// Package logger formats slog records as single lines:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, key2=value2
//
// and optionally writes them to a size-rotated file.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02T15:04:05.000Z"

// ParseLevel maps debug, info, warn and error (any case) to a level.
// Anything else is info.
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

type Handler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	attrs []slog.Attr
	group string
}

func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{w: w, mu: &sync.Mutex{}, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.UTC().Format(timeFormat))
	b.WriteString(" [")
	b.WriteString(r.Level.String())
	b.WriteString("] ")
	b.WriteString(r.Message)

	n := 0
	write := func(a slog.Attr) bool {
		if a.Equal(slog.Attr{}) {
			return true
		}
		if n == 0 {
			b.WriteString(" | ")
		} else {
			b.WriteString(", ")
		}
		if h.group != "" {
			b.WriteString(h.group)
			b.WriteByte('.')
		}
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.Resolve().String())
		n++
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger returns a logger writing to path, rotated at maxSizeMB, or to
// stderr when path is empty. The closer flushes and releases the file.
func NewLogger(path string, level slog.Level, maxSizeMB int) (*slog.Logger, io.Closer) {
	if path == "" {
		return slog.New(NewHandler(os.Stderr, level)), nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return slog.New(NewHandler(lj, level)), lj
}
