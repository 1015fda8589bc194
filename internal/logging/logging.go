// Package logging provides the slog handler backing tubesync's log surface:
// every record is formatted as a plain text line, appended to the log file and
// fanned out to a bounded channel for live display. The channel send never
// blocks; lines are dropped when the consumer falls behind.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	timeFormat        = "2006-01-02 15:04:05"
	defaultLineBuffer = 256
)

type Options struct {
	// Level is the minimum record level; defaults to slog.LevelInfo.
	Level slog.Leveler
	// LineBuffer is the capacity of the live line channel.
	LineBuffer int
}

// Handler implements slog.Handler.
type Handler struct {
	mu     *sync.Mutex
	out    io.Writer
	lines  chan string
	level  slog.Leveler
	prefix string
}

func NewHandler(out io.Writer, opts Options) *Handler {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	buffer := opts.LineBuffer
	if buffer <= 0 {
		buffer = defaultLineBuffer
	}

	return &Handler{
		mu:    &sync.Mutex{},
		out:   out,
		lines: make(chan string, buffer),
		level: level,
	}
}

// Lines returns the live line channel. Sends are fire-and-forget; a full
// channel drops lines rather than stalling the logging caller.
func (h *Handler) Lines() <-chan string {
	return h.lines
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	b.WriteString(rec.Time.Format(timeFormat))
	b.WriteString(" [")
	b.WriteString(rec.Level.String())
	b.WriteString("] ")
	b.WriteString(rec.Message)
	b.WriteString(h.prefix)
	rec.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, "", a)
		return true
	})
	b.WriteByte('\n')
	line := b.String()

	h.mu.Lock()
	_, err := io.WriteString(h.out, line)
	h.mu.Unlock()

	select {
	case h.lines <- strings.TrimSuffix(line, "\n"):
	default:
	}

	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	for _, a := range attrs {
		writeAttr(&b, "", a)
	}
	clone := *h
	clone.prefix = h.prefix + b.String()
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	// Groups are flattened into attribute key prefixes elsewhere; the CLI
	// never nests them, so qualified keys are not worth the bookkeeping.
	return h
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Resolve().Any())
}

// Open opens the append-only log file, creating it when absent.
func Open(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Tail returns up to n trailing lines of the log file, oldest first. A missing
// file yields no lines and no error.
func Tail(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Export copies the log file verbatim to dest.
func Export(path, dest string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
