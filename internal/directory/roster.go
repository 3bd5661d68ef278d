package directory

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"creatorpay/internal/logging"
)

//go:embed roster.tsv
var embeddedRoster []byte

// MaxRosterLine is the longest roster line, in bytes, that is parsed. Longer
// lines are skipped.
const MaxRosterLine = 64 << 10

// skippedTextWidth caps the line text kept in a SkippedEntry, in runes.
const skippedTextWidth = 120

// SkippedEntry describes a roster line that could not be used.
type SkippedEntry struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Roster is the parsed form of a roster file before indices are built.
type Roster struct {
	Creators []Creator
	Skipped  []SkippedEntry
}

// ParseTSV reads the tab separated roster layout. A line that does not start
// with a tab opens a new creator and may carry its first account in the
// following columns; lines starting with a tab add an account to the current
// creator. Malformed lines are skipped and reported rather than failing the
// whole load.
func ParseTSV(r io.Reader) (Roster, error) {
	var roster Roster
	var current *Creator
	flush := func() {
		if current != nil {
			roster.Creators = append(roster.Creators, *current)
			current = nil
		}
	}

	handle := func(lineNo int, line string) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			return
		}
		skip := func(reason string) {
			text := strings.TrimSpace(line)
			if r := []rune(text); len(r) > skippedTextWidth {
				text = string(r[:skippedTextWidth]) + "…"
			}
			roster.Skipped = append(roster.Skipped, SkippedEntry{Line: lineNo, Text: text, Reason: reason})
		}
		if len(line) > MaxRosterLine {
			skip("line_too_long")
			return
		}
		fields := splitFields(line)

		if strings.HasPrefix(line, "\t") {
			if current == nil {
				skip("account_without_creator")
				return
			}
			acc, ok := parseAccount(fields)
			if !ok {
				skip("unknown_account_type")
				return
			}
			current.Accounts = append(current.Accounts, acc)
			return
		}

		name := fields[0]
		if _, isType := ParseAccountType(name); isType || strings.HasPrefix(name, "http") {
			skip("invalid_creator_name")
			return
		}
		flush()
		current = &Creator{Name: name}
		if len(fields) > 1 {
			if acc, ok := parseAccount(fields[1:]); ok {
				current.Accounts = append(current.Accounts, acc)
			} else {
				skip("unknown_account_type")
			}
		}
	}

	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Roster{}, fmt.Errorf("read roster: %w", err)
		}
		if line != "" {
			handle(lineNo, line)
		}
		if err != nil {
			break
		}
	}
	flush()
	return roster, nil
}

// splitFields splits on tabs, trims each column and drops empty columns.
func splitFields(line string) []string {
	raw := strings.Split(line, "\t")
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func parseAccount(fields []string) (Account, bool) {
	if len(fields) == 0 {
		return Account{}, false
	}
	kind, ok := ParseAccountType(fields[0])
	if !ok {
		return Account{}, false
	}
	acc := Account{Type: kind}
	if len(fields) > 1 {
		acc.Handle = fields[1]
	}
	if len(fields) > 2 {
		acc.URL = fields[2]
	}
	if acc.URL == "" && strings.HasPrefix(acc.Handle, "http") {
		acc.URL, acc.Handle = acc.Handle, ""
	}
	return acc, true
}

type yamlRoster struct {
	Creators []struct {
		Name     string `yaml:"name"`
		Accounts []struct {
			Type   string `yaml:"type"`
			Handle string `yaml:"handle"`
			URL    string `yaml:"url"`
		} `yaml:"accounts"`
	} `yaml:"creators"`
}

// ParseYAML reads a roster of the form
//
//	creators:
//	  - name: Jill
//	    accounts:
//	      - {type: Mathos TT, handle: calwithjill, url: https://www.tiktok.com/@calwithjill}
func ParseYAML(data []byte) (Roster, error) {
	var raw yamlRoster
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Roster{}, fmt.Errorf("parse roster yaml: %w", err)
	}
	var roster Roster
	for i, rc := range raw.Creators {
		name := strings.TrimSpace(rc.Name)
		if name == "" {
			roster.Skipped = append(roster.Skipped, SkippedEntry{Line: i + 1, Reason: "missing_creator_name"})
			continue
		}
		c := Creator{Name: name}
		for _, ra := range rc.Accounts {
			fields := []string{strings.TrimSpace(ra.Type), strings.TrimSpace(ra.Handle), strings.TrimSpace(ra.URL)}
			acc, ok := ParseAccountType(fields[0])
			if !ok {
				roster.Skipped = append(roster.Skipped, SkippedEntry{Line: i + 1, Text: name + ": " + fields[0], Reason: "unknown_account_type"})
				continue
			}
			account := Account{Type: acc, Handle: fields[1], URL: fields[2]}
			if account.URL == "" && strings.HasPrefix(account.Handle, "http") {
				account.URL, account.Handle = account.Handle, ""
			}
			c.Accounts = append(c.Accounts, account)
		}
		roster.Creators = append(roster.Creators, c)
	}
	return roster, nil
}

// Load builds a Directory from a roster file. YAML files are recognised by
// extension; everything else is parsed as TSV. An empty path loads the
// built-in roster.
func Load(path string, logger *slog.Logger) (*Directory, error) {
	roster, err := ReadRoster(path)
	if err != nil {
		return nil, err
	}
	return FromRoster(roster, logger)
}

// ReadRoster parses a roster file without building indices.
func ReadRoster(path string) (Roster, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ParseTSV(bytes.NewReader(embeddedRoster))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("open roster: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseTSV(bytes.NewReader(data))
	}
}

// FromRoster builds a Directory and logs skipped roster entries.
func FromRoster(roster Roster, logger *slog.Logger) (*Directory, error) {
	for _, s := range roster.Skipped {
		logging.WarnWithContext(logger, "roster entry skipped", "roster_entry_skipped",
			logging.Int("line", s.Line),
			logging.String("reason", s.Reason),
			logging.String("text", s.Text),
			logging.String(logging.FieldErrorHint, "fix the roster line or ignore it if intentional"),
			logging.String(logging.FieldImpact, "videos from this account will not be attributed"),
		)
	}
	dir := New(roster.Creators, logger)
	if dir.Len() == 0 {
		return nil, ErrEmptyDirectory
	}
	return dir, nil
}

// Default returns the directory built from the embedded roster.
func Default(logger *slog.Logger) (*Directory, error) {
	dir, err := Load("", logger)
	if err != nil {
		return nil, fmt.Errorf("load embedded roster: %w", err)
	}
	return dir, nil
}
