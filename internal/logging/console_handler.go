package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// field is one flattened attribute; group names are joined into the key with
// dots.
type field struct {
	key   string
	value slog.Value
}

// consoleHandler writes one header line per record:
//
//	2026-01-02 15:04:05 INFO [component] model · creator - message
//
// followed by indented fields. Info and above show a curated, labelled
// subset; debug shows every field as key: value plus the caller.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	fields    []field
	groups    []string
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, len(h.fields), len(h.fields)+record.NumAttrs())
	copy(fields, h.fields)
	record.Attrs(func(attr slog.Attr) bool {
		fields = flatten(fields, h.groups, attr)
		return true
	})
	fields = lastWins(fields)

	var b strings.Builder
	h.writeHeader(&b, record, fields)
	if record.Level < slog.LevelInfo {
		for _, f := range fields {
			if f.key == FieldComponent {
				continue
			}
			b.WriteString("    " + f.key + ": " + rawValue(f.value) + "\n")
		}
	} else {
		lines, hidden := infoLines(fields)
		for _, l := range lines {
			b.WriteString("    - " + l.label + ": " + l.value + "\n")
		}
		if hidden == 1 {
			b.WriteString("    + 1 more field hidden\n")
		} else if hidden > 1 {
			b.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) writeHeader(b *strings.Builder, record slog.Record, fields []field) {
	b.WriteString(consoleTime(record.Time))
	b.WriteByte(' ')
	b.WriteString(levelName(record.Level))
	if component := valueOf(fields, FieldComponent); component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject := subjectOf(fields); subject != "" {
		b.WriteString(" " + subject)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" - " + msg)
	if h.addSource && record.Level < slog.LevelInfo {
		if src := record.Source(); src != nil && src.File != "" {
			b.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	b.WriteByte('\n')
}

// subjectOf renders "model · creator" for lines scoped to a model or creator.
func subjectOf(fields []field) string {
	var parts []string
	for _, key := range []string{FieldModel, FieldCreator} {
		if v := strings.TrimSpace(valueOf(fields, key)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " · ")
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append([]field(nil), h.fields...)
	for _, attr := range attrs {
		clone.fields = flatten(clone.fields, h.groups, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func flatten(dst []field, groups []string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	v := attr.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(append([]string(nil), groups...), attr.Key)
		}
		for _, a := range v.Group() {
			dst = flatten(dst, inner, a)
		}
		return dst
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(append(append([]string(nil), groups...), key), ".")
	}
	return append(dst, field{key: key, value: v})
}

// lastWins drops earlier fields whose key repeats, keeping the first
// position and the last value.
func lastWins(fields []field) []field {
	pos := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, ok := pos[f.key]; ok {
			out[i].value = f.value
			continue
		}
		pos[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func lookup(fields []field, key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

func valueOf(fields []field, key string) string {
	if f, ok := lookup(fields, key); ok {
		return plainValue(f.value)
	}
	return ""
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
