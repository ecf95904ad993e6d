package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type ColorHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

func NewColorHandler(level slog.Leveler) *ColorHandler {
	return NewColorHandlerWithWriter(os.Stderr, level)
}

func NewColorHandlerWithWriter(out io.Writer, level slog.Leveler) *ColorHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ColorHandler{mu: &sync.Mutex{}, out: out, level: level}
}

func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var color lipgloss.Style
	switch r.Level {
	case slog.LevelDebug:
		color = Muted
	case slog.LevelInfo:
		color = Default
	case slog.LevelWarn:
		color = Warning
	case slog.LevelError:
		color = Fail
	default:
		color = Default
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	msg := Gray.Render(r.Time.Format(time.TimeOnly)) + " " + color.Render(r.Message)

	if r.Level == slog.LevelWarn {
		msg = Gray.Render(r.Time.Format(time.TimeOnly)) + " " + WarningWithBackground.Render("WARNING") + " " + color.Render(r.Message)
	}

	if r.Level == slog.LevelError {
		msg = Gray.Render(r.Time.Format(time.TimeOnly)) + " " + ErrorWithBackground.Render("✗ ERROR") + " " + color.Render(r.Message)
	}

	for _, a := range h.attrs {
		msg += " " + Muted.Render(a.Key) + "=" + fmt.Sprintf("%v", a.Value.Any())
	}

	r.Attrs(func(a slog.Attr) bool {
		msg += " " + Muted.Render(h.prefix+a.Key) + "=" + fmt.Sprintf("%v", a.Value.Any())
		return true
	})

	_, err := fmt.Fprintln(h.out, msg)
	return err
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefixed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		prefixed[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return &ColorHandler{
		mu:     h.mu,
		out:    h.out,
		level:  h.level,
		attrs:  append(slices.Clone(h.attrs), prefixed...),
		prefix: h.prefix,
	}
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &ColorHandler{
		mu:     h.mu,
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
	}
}
