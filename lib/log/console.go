/**
 * Copyright 2025 Adobe. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorGray   = "\033[90m"
	ColorRed    = "\033[91m"
	ColorYellow = "\033[93m"
	ColorBlue   = "\033[94m"
	ColorCyan   = "\033[96m"
	ColorWhite  = "\033[97m"
	ColorDim    = "\033[2m"
)

// ConsoleHandler formats the records as a single human readable line:
//
//	[251019/120000+00] INF Command completed interactor.Click interactor.selector=[data-testid="apple"]
type ConsoleHandler struct {
	opts   *slog.HandlerOptions
	writer io.Writer
	mu     *sync.Mutex

	useColor     bool
	useTimestamp bool
	isDebugLevel bool

	// Already flattened with the group prefix
	attrs  []slog.Attr
	groups []string
}

// NewConsoleHandler creates a new ConsoleHandler, color is enabled when writer is a terminal
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &ConsoleHandler{
		opts:         opts,
		writer:       w,
		mu:           &sync.Mutex{},
		useColor:     isTerminal(w),
		useTimestamp: true,
		isDebugLevel: opts.Level != nil && opts.Level.Level() <= slog.LevelDebug,
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SetUseColor enables or disables color output
func (h *ConsoleHandler) SetUseColor(useColor bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.useColor = useColor
}

// SetUseTimestamp enables or disables the timestamp prefix
func (h *ConsoleHandler) SetUseTimestamp(useTimestamp bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.useTimestamp = useTimestamp
}

// Enabled reports whether the handler handles records at the given level
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes the record line
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	if h.useTimestamp {
		timestamp := r.Time.Format("060102/150405-07")
		if h.isDebugLevel {
			timestamp = r.Time.Format("060102/150405.000-07")
		}
		buf.WriteString(h.colorize(ColorGray, "["+timestamp+"]"))
		buf.WriteString(" ")
	}

	buf.WriteString(h.colorizeLevel(r.Level, formatLevel(r.Level)))
	buf.WriteString(" ")
	buf.WriteString(h.colorizeLevel(r.Level, r.Message))

	pack, fun := h.extractPackFunc(r)
	if pack != "" && fun != "" {
		buf.WriteString(" ")
		buf.WriteString(h.colorize(ColorDim, pack+"."+fun))
	}

	for _, attr := range h.attrs {
		if attr.Key != "pack" && attr.Key != "func" {
			appendAttr(&buf, attr)
		}
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		if len(h.groups) == 0 && (a.Key == "pack" || a.Key == "func") {
			return true
		}
		for _, fa := range h.flatten(prefix, a, nil) {
			appendAttr(&buf, fa)
		}
		return true
	})

	buf.WriteString("\n")

	_, err := io.WriteString(h.writer, buf.String())
	return err
}

func (h *ConsoleHandler) extractPackFunc(r slog.Record) (pack string, fun string) {
	for _, attr := range h.attrs {
		switch attr.Key {
		case "pack":
			pack = attr.Value.String()
		case "func":
			fun = attr.Value.String()
		}
	}
	if len(h.groups) > 0 {
		return pack, fun
	}
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "pack":
			pack = a.Value.String()
		case "func":
			fun = a.Value.String()
		}
		return true
	})
	return pack, fun
}

// flatten expands group attributes into the list of dot-prefixed ones
func (h *ConsoleHandler) flatten(prefix string, a slog.Attr, out []slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = joinKey(prefix, a.Key)
		}
		for _, ga := range a.Value.Group() {
			out = h.flatten(p, ga, out)
		}
		return out
	}
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(h.groups, a)
		if a.Key == "" {
			return out
		}
	}
	a.Key = joinKey(prefix, a.Key)
	return append(out, a)
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func appendAttr(buf *strings.Builder, attr slog.Attr) {
	buf.WriteString(" ")
	buf.WriteString(attr.Key)
	buf.WriteString("=")

	switch attr.Value.Kind() {
	case slog.KindString:
		buf.WriteString(attr.Value.String())
	case slog.KindInt64:
		fmt.Fprintf(buf, "%d", attr.Value.Int64())
	case slog.KindUint64:
		fmt.Fprintf(buf, "%d", attr.Value.Uint64())
	case slog.KindFloat64:
		fmt.Fprintf(buf, "%g", attr.Value.Float64())
	case slog.KindBool:
		fmt.Fprintf(buf, "%t", attr.Value.Bool())
	case slog.KindTime:
		buf.WriteString(attr.Value.Time().Format(time.RFC3339))
	case slog.KindDuration:
		buf.WriteString(attr.Value.Duration().String())
	default:
		fmt.Fprintf(buf, "%v", attr.Value.Any())
	}
}

// formatLevel formats the log level as a 3-character string
func formatLevel(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return "???"
	}
}

func (h *ConsoleHandler) colorize(color, text string) string {
	if !h.useColor {
		return text
	}
	return color + text + ColorReset
}

func (h *ConsoleHandler) colorizeLevel(level slog.Level, text string) string {
	if !h.useColor {
		return text
	}

	var color string
	switch level {
	case slog.LevelDebug:
		color = ColorCyan
	case slog.LevelInfo:
		color = ColorBlue
	case slog.LevelWarn:
		color = ColorYellow
	case slog.LevelError:
		color = ColorRed
	default:
		color = ColorWhite
	}

	return color + text + ColorReset
}

// WithAttrs returns a new ConsoleHandler with the given attributes
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		nh.attrs = h.flatten(prefix, a, nh.attrs)
	}
	return nh
}

// WithGroup returns a new ConsoleHandler with the given group
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.groups = append(nh.groups, name)
	return nh
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &ConsoleHandler{
		opts:         h.opts,
		writer:       h.writer,
		mu:           h.mu,
		useColor:     h.useColor,
		useTimestamp: h.useTimestamp,
		isDebugLevel: h.isDebugLevel,
		attrs:        append([]slog.Attr(nil), h.attrs...),
		groups:       append([]string(nil), h.groups...),
	}
}
