package schema

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlock    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommas = regexp.MustCompile(`,\s*([}\]])`)
)

// Parse extracts a schema from raw model output. It first tries a strict
// parse of the extracted JSON and then a single repaired parse. The repair
// pass is a fixed set of textual transforms, not a general recovery
// mechanism: anything it cannot fix is an error.
func Parse(raw string) (*Schema, error) {
	text := ExtractJSON(raw)

	var s Schema
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		repaired := RepairJSON(text)
		if err := json.Unmarshal([]byte(repaired), &s); err != nil {
			return nil, err
		}
	}

	s.Normalize()

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// ExtractJSON narrows raw model output to its JSON payload: a fenced code
// block if present, else the outermost {...} span, else the whole text.
func ExtractJSON(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}

// RepairJSON strips trailing commas before closing brackets and drops all
// control characters. Newlines and tabs go too: between tokens they are
// optional, and inside a string literal they are invalid unescaped.
func RepairJSON(text string) string {
	text = trailingCommas.ReplaceAllString(text, "$1")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
