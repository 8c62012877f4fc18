package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the application logger. Local runs get readable text
// output at debug level, everything else gets JSON. When logPath is set the
// output is duplicated into that file.
func SetupLogger(env string, logPath string) *slog.Logger {
	var out io.Writer = os.Stdout

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file %s: %v\n", logPath, err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// Notifier delivers a log line somewhere out-of-band, e.g. an admin chat.
type Notifier interface {
	Notify(text string)
}

// SetupNotifyHandler wraps log so that records at or above level are also
// pushed through n. The original handler keeps receiving everything.
func SetupNotifyHandler(log *slog.Logger, n Notifier, level slog.Level) *slog.Logger {
	return slog.New(&notifyHandler{
		next:  log.Handler(),
		n:     n,
		level: level,
	})
}

type notifyHandler struct {
	next  slog.Handler
	n     Notifier
	level slog.Level
	attrs []slog.Attr
}

func (h *notifyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *notifyHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		var sb strings.Builder
		sb.WriteString(r.Level.String())
		sb.WriteString(": ")
		sb.WriteString(r.Message)
		for _, a := range h.attrs {
			sb.WriteString(fmt.Sprintf(" %s=%v", a.Key, a.Value))
		}
		r.Attrs(func(a slog.Attr) bool {
			sb.WriteString(fmt.Sprintf(" %s=%v", a.Key, a.Value))
			return true
		})
		h.n.Notify(sb.String())
	}
	return h.next.Handle(ctx, r)
}

func (h *notifyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &notifyHandler{
		next:  h.next.WithAttrs(attrs),
		n:     h.n,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *notifyHandler) WithGroup(name string) slog.Handler {
	return &notifyHandler{
		next:  h.next.WithGroup(name),
		n:     h.n,
		level: h.level,
		attrs: h.attrs,
	}
}
