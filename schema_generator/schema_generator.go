package schemagenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/w-h-a/formgen/generator"
	"github.com/w-h-a/formgen/schema"
)

var (
	// ErrNotConfigured means no completion provider credential was supplied.
	ErrNotConfigured = errors.New("completion provider not configured")

	// ErrInvalidSchema is terminal: both the initial attempt and the single
	// retry produced output that failed parsing or validation.
	ErrInvalidSchema = errors.New("could not produce a valid schema")
)

const (
	maxPromptLen = 1000

	defaultTemperature = 0.7
	retryTemperature   = 0.1
)

const baseInstruction = `You design web form schemas. Respond with a single JSON object of this shape:
{"title": string, "description": string, "fields": [{"id": string, "type": string, "label": string, "placeholder": string, "required": bool, "options": [string]}]}
Allowed field types: text, email, number, textarea, select, checkbox, radio, date, file.
Include "options" only for select, checkbox, and radio fields.
Field ids must be unique snake_case identifiers.`

const strictSuffix = "\nReturn only the JSON object. No markdown, no code fences, no commentary."

type SchemaGenerator interface {
	Generate(ctx context.Context, prompt string, contextBlock string) (*schema.Schema, error)
}

type schemaGenerator struct {
	options Options
}

func (g *schemaGenerator) Generate(ctx context.Context, prompt string, contextBlock string) (*schema.Schema, error) {
	if g.options.Generator == nil {
		return nil, ErrNotConfigured
	}

	prompt = truncate(prompt, maxPromptLen)

	system := baseInstruction
	if len(contextBlock) > 0 {
		system = fmt.Sprintf("%s\n\nThe user's previous forms, most similar first:\n%s\nReuse their naming and field patterns where they fit the request.", baseInstruction, contextBlock)
	}

	raw, err := g.options.Generator.Generate(
		ctx,
		prompt,
		generator.WithSystem(system),
		generator.WithTemperature(defaultTemperature),
	)
	if err != nil {
		return nil, err
	}

	parsed, parseErr := schema.Parse(raw)
	if parseErr == nil {
		return parsed, nil
	}

	// One stricter retry for formatting slips. Transport failures above are
	// never retried here.
	slog.WarnContext(ctx, "schema output invalid, retrying once", "error", parseErr)

	raw, err = g.options.Generator.Generate(
		ctx,
		prompt,
		generator.WithSystem(system+strictSuffix),
		generator.WithTemperature(retryTemperature),
	)
	if err != nil {
		return nil, err
	}

	parsed, parseErr = schema.Parse(raw)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, parseErr)
	}

	return parsed, nil
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

func NewSchemaGenerator(opts ...Option) SchemaGenerator {
	options := NewOptions(opts...)

	return &schemaGenerator{
		options: options,
	}
}
