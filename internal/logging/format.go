package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	consoleTimeLayout = "2006-01-02 15:04:05"
	maxErrorWidth     = 200
)

func consoleTime(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Local().Format(consoleTimeLayout)
}

// plainValue renders v unquoted. Used for the header subject and lookups.
func plainValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return consoleTime(v.Time())
	default:
		return v.String()
	}
}

// rawValue renders v for debug lines: plain, but quoted when a reader could
// misparse it.
func rawValue(v slog.Value) string {
	v = v.Resolve()
	s := plainValue(v)
	switch v.Kind() {
	case slog.KindString, slog.KindAny:
		return quoteIfNeeded(s)
	}
	return s
}

// fieldValue renders v for an info line, formatted by what key holds.
func fieldValue(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case v.Kind() == slog.KindFloat64 && isMoneyKey(key):
		return strconv.FormatFloat(v.Float64(), 'f', 2, 64)
	case key == "error":
		s := rawValue(v)
		if len(s) > maxErrorWidth {
			s = s[:maxErrorWidth] + "…"
		}
		return s
	}
	return rawValue(v)
}

func isMoneyKey(key string) bool {
	return key == "bonus" || strings.HasSuffix(key, "_cost") || strings.HasSuffix(key, "_rate")
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
