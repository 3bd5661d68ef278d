package resolver

import (
	"context"
	"log/slog"
	"strings"

	"creatorpay/internal/directory"
	"creatorpay/internal/logging"
)

// Step identifies which matching rule attributed a video.
type Step string

const (
	StepURL               Step = "url"
	StepURLHandle         Step = "url_handle"
	StepHandle            Step = "handle"
	StepHandleVariation   Step = "handle_variation"
	StepHandleContainment Step = "handle_containment"
	StepName              Step = "display_name"
)

// MinContainmentLength is the shortest handle considered by the containment
// fallback, applied to both the candidate and the known handle.
const MinContainmentLength = 5

// Query carries the identity signals found on a video row. Any field may be
// empty.
type Query struct {
	URL         string
	Handle      string
	DisplayName string
}

// Match is a successful attribution.
type Match struct {
	Creator *directory.Creator
	Step    Step
	// Key is the lookup key that produced the match.
	Key string
}

// Resolver attributes videos to creators in a Directory. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	dir    *directory.Directory
	logger *slog.Logger
}

// New returns a Resolver over dir.
func New(dir *directory.Directory, logger *slog.Logger) *Resolver {
	return &Resolver{dir: dir, logger: logging.NewComponentLogger(logger, "resolver")}
}

// Directory returns the directory the resolver reads from.
func (r *Resolver) Directory() *directory.Directory { return r.dir }

// Resolve tries, in order: the URL as given and normalized, handles extracted
// from the URL, the supplied handle, variations of that handle, substring
// containment against known handles, and finally the display name. The first
// rule that succeeds wins.
func (r *Resolver) Resolve(q Query) (Match, bool) {
	m, ok := r.resolve(q)
	if r != nil && r.logger.Enabled(context.Background(), slog.LevelDebug) {
		result := "unmatched"
		reason := "no_rule_matched"
		if ok {
			result = m.Creator.Name
			reason = string(m.Step)
		}
		attrs := logging.DecisionAttrs("creator_match", result, reason)
		attrs = append(attrs,
			logging.String("url", q.URL),
			logging.String("handle", q.Handle),
			logging.String("display_name", q.DisplayName),
		)
		r.logger.Debug("video attribution", logging.Args(attrs...)...)
	}
	return m, ok
}

func (r *Resolver) resolve(q Query) (Match, bool) {
	if r == nil || r.dir == nil {
		return Match{}, false
	}
	if strings.TrimSpace(q.URL) != "" {
		if c, ok := r.dir.ByURL(q.URL); ok {
			return Match{Creator: c, Step: StepURL, Key: q.URL}, true
		}
		for _, h := range directory.ExtractHandles(q.URL) {
			if c, ok := r.dir.ByHandle(h.Handle); ok {
				return Match{Creator: c, Step: StepURLHandle, Key: h.Handle}, true
			}
		}
	}

	if strings.TrimSpace(q.Handle) != "" {
		if c, ok := r.dir.ByHandle(q.Handle); ok {
			return Match{Creator: c, Step: StepHandle, Key: directory.NormalizeHandle(q.Handle)}, true
		}
		for _, variant := range HandleVariations(q.Handle) {
			if c, ok := r.dir.ByHandle(variant); ok {
				return Match{Creator: c, Step: StepHandleVariation, Key: directory.NormalizeHandle(variant)}, true
			}
		}
		if m, ok := r.containment(q.Handle); ok {
			return m, true
		}
	}

	if strings.TrimSpace(q.DisplayName) != "" {
		if c, ok := r.dir.ByName(q.DisplayName); ok {
			return Match{Creator: c, Step: StepName, Key: directory.NormalizeName(q.DisplayName)}, true
		}
	}
	return Match{}, false
}

// HandleVariations lists the alternative spellings tried after an exact
// handle miss: trailing digits removed, "_" and "." removed, and "@" toggled.
func HandleVariations(handle string) []string {
	variations := []string{
		strings.TrimRight(handle, "0123456789"),
		strings.NewReplacer("_", "", ".", "").Replace(handle),
	}
	if strings.HasPrefix(handle, "@") {
		variations = append(variations, strings.TrimLeft(handle, "@"))
	} else {
		variations = append(variations, "@"+handle)
	}
	return variations
}

// containment accepts the first known handle that contains the candidate or
// is contained by it, provided both are at least MinContainmentLength long.
// This is lenient and can attribute short or generic handles to the wrong
// creator.
func (r *Resolver) containment(handle string) (Match, bool) {
	candidate := directory.NormalizeHandle(handle)
	if len(candidate) < MinContainmentLength {
		return Match{}, false
	}
	var match Match
	found := false
	r.dir.EachHandle(func(known string, c *directory.Creator) bool {
		if len(known) < MinContainmentLength {
			return true
		}
		if strings.Contains(known, candidate) || strings.Contains(candidate, known) {
			match = Match{Creator: c, Step: StepHandleContainment, Key: known}
			found = true
			return false
		}
		return true
	})
	return match, found
}
