package contextbuilder

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/w-h-a/formgen/store"
)

const (
	maxPurposeLen     = 100
	maxDescriptionLen = 200
	maxFieldLabels    = 8
	maxSummaryLen     = 800
	maxContextLen     = 4000
)

type formSummary struct {
	Purpose     string   `json:"purpose"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields,omitempty"`
}

// Summarize derives the bounded text stored alongside a form's embedding and
// injected into generation prompts.
func Summarize(record store.Record) string {
	summary := formSummary{
		Purpose:     truncate(record.Title, maxPurposeLen),
		Description: truncate(record.Description, maxDescriptionLen),
	}

	for _, field := range record.Schema.Fields {
		if len(summary.Fields) == maxFieldLabels {
			break
		}
		summary.Fields = append(summary.Fields, field.Label)
	}

	serialized, err := json.Marshal(summary)
	if err != nil {
		return ""
	}

	return truncate(string(serialized), maxSummaryLen)
}

// Build assembles a context block from records in ranked order.
func Build(records []store.Record) string {
	summaries := make([]string, 0, len(records))
	for _, record := range records {
		if s := Summarize(record); len(s) > 0 {
			summaries = append(summaries, s)
		}
	}

	return Join(summaries)
}

// Join concatenates summaries until the next one would push the total past
// the context cap. Overflowing summaries are dropped whole, never cut.
func Join(summaries []string) string {
	var out []byte

	for _, s := range summaries {
		next := len(out) + len(s)
		if len(out) > 0 {
			next++ // separator
		}
		if next > maxContextLen {
			break
		}

		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, s...)
	}

	return string(out)
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
