package logging

import "strings"

// infoFieldLimit caps the fields printed under an info line.
const infoFieldLimit = 8

// leadingKeys are printed first, in this order, on info lines. Everything
// else follows in the order it was logged.
var leadingKeys = []string{
	FieldEventType,
	FieldDecisionType,
	fieldDecisionResult,
	fieldDecisionReason,
	FieldErrorCode,
	FieldErrorHint,
	FieldImpact,
	"error",
	"rows",
	"matched",
	"unmatched",
	"creators",
	"unique_videos",
	"total_cost",
	"path",
	"dir",
	"address",
	"status",
}

// labels overrides the title-cased key where it reads badly.
var labels = map[string]string{
	FieldEventType:      "Event",
	FieldDecisionType:   "Decision",
	fieldDecisionResult: "Decision",
	fieldDecisionReason: "Reason",
	FieldErrorCode:      "Error Code",
	FieldErrorHint:      "Hint",
}

type infoLine struct {
	label string
	value string
}

// infoLines orders and formats fields for an info-or-above entry. It returns
// the visible lines and how many fields were held back.
func infoLines(fields []field) ([]infoLine, int) {
	ordered := make([]field, 0, len(fields))
	for _, key := range leadingKeys {
		if f, ok := lookup(fields, key); ok {
			ordered = append(ordered, f)
		}
	}
	for _, f := range fields {
		if !isLeadingKey(f.key) {
			ordered = append(ordered, f)
		}
	}

	lines := make([]infoLine, 0, infoFieldLimit)
	hidden := 0
	for _, f := range ordered {
		switch {
		case inHeader(f.key):
			continue
		case debugOnly(f.key), len(lines) >= infoFieldLimit:
			hidden++
			continue
		}
		lines = append(lines, infoLine{label: label(f.key), value: fieldValue(f.key, f.value)})
	}
	return lines, hidden
}

func isLeadingKey(key string) bool {
	for _, k := range leadingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// inHeader reports keys already shown in the header line.
func inHeader(key string) bool {
	return key == FieldComponent || key == FieldModel || key == FieldCreator
}

// debugOnly reports identifiers and lookup inputs that only matter when
// tracing a single run.
func debugOnly(key string) bool {
	switch key {
	case FieldRunID, FieldRequestID, "url", "handle", "display_name", "method":
		return true
	}
	return strings.HasSuffix(key, "_id")
}

func label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == '.' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
