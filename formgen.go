package formgen

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	contextbuilder "github.com/w-h-a/formgen/context_builder"
	"github.com/w-h-a/formgen/index"
	"github.com/w-h-a/formgen/schema"
	"github.com/w-h-a/formgen/store"
)

var (
	ErrEmptyPrompt = errors.New("prompt is required")

	// ErrNoEmbedder means the indexing path was invoked without an embedding
	// credential. Generation never returns this: a missing embedder only
	// degrades retrieval.
	ErrNoEmbedder = errors.New("embedding provider not configured")
)

const (
	memoryTimeout   = 5 * time.Second
	generateTimeout = 60 * time.Second
	indexTimeout    = 30 * time.Second
)

// Service sequences the pipeline: embed the prompt, search the index, fetch
// the matched records, assemble a bounded context, generate a schema. Every
// failure on the memory path degrades to context-free generation.
type Service struct {
	options Options
}

func (s *Service) Generate(ctx context.Context, prompt string, ownerId string) (*schema.Schema, bool, error) {
	if len(strings.TrimSpace(prompt)) == 0 {
		return nil, false, ErrEmptyPrompt
	}

	contextBlock := s.retrieveContext(ctx, prompt, ownerId)

	gctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	generated, err := s.options.SchemaGenerator.Generate(gctx, prompt, contextBlock)
	if err != nil {
		return nil, false, err
	}

	return generated, len(contextBlock) > 0, nil
}

func (s *Service) retrieveContext(ctx context.Context, prompt string, ownerId string) string {
	if s.options.Embedder == nil || s.options.Index == nil || s.options.Store == nil {
		return ""
	}

	mctx, cancel := context.WithTimeout(ctx, memoryTimeout)
	defer cancel()

	vector, err := s.options.Embedder.Embed(mctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "prompt embedding failed, generating without memory", "error", err)
		return ""
	}

	matches, err := s.options.Index.Search(mctx, vector, ownerId, s.options.TopK)
	if err != nil {
		slog.WarnContext(ctx, "similarity search failed, generating without memory", "error", err)
		return ""
	}
	if len(matches) == 0 {
		return ""
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Id)
	}

	records, err := s.options.Store.FetchByIds(mctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "record fetch failed, generating without memory", "error", err)
		return ""
	}

	return contextbuilder.Build(records)
}

// IndexForm embeds a form's title+description and persists the vector and a
// bounded summary. It returns the stored dimensionality.
func (s *Service) IndexForm(ctx context.Context, id string, text string) (int, error) {
	if s.options.Embedder == nil {
		return 0, ErrNoEmbedder
	}

	vector, err := s.options.Embedder.Embed(ctx, text)
	if err != nil {
		return 0, err
	}

	var record store.Record
	if records, err := s.options.Store.FetchByIds(ctx, []string{id}); err != nil {
		slog.WarnContext(ctx, "could not load form for summary", "id", id, "error", err)
	} else if len(records) == 1 {
		record = records[0]
	}

	// When the record cannot be loaded, the indexed text still carries the
	// title+description, so a summary derived from it keeps retrieval useful.
	if len(record.Id) == 0 {
		record = store.Record{Title: text}
	}
	summary := contextbuilder.Summarize(record)

	if err := s.options.Store.PersistEmbedding(ctx, id, vector, summary); err != nil {
		return 0, err
	}

	if up, ok := s.options.Index.(index.Upserter); ok {
		if err := up.Upsert(ctx, id, vector, record.OwnerId, record.Title, summary); err != nil {
			slog.WarnContext(ctx, "external index upsert failed", "id", id, "error", err)
		}
	}

	return len(vector), nil
}

// IndexFormAsync runs IndexForm on its own detached context so form creation
// never blocks on, or fails because of, embedding. Errors are logged and
// never retried; an un-embedded form only degrades future retrieval.
func (s *Service) IndexFormAsync(id string, text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()

		if _, err := s.IndexForm(ctx, id, text); err != nil {
			slog.ErrorContext(ctx, "background form indexing failed", "id", id, "error", err)
		}
	}()
}

// CreateForm persists a record and dispatches indexing after the id is
// already determined.
func (s *Service) CreateForm(ctx context.Context, record store.Record) (string, error) {
	id, err := s.options.Store.Create(ctx, record)
	if err != nil {
		return "", err
	}

	s.IndexFormAsync(id, record.Title+" "+record.Description)

	return id, nil
}

func NewService(opts ...Option) *Service {
	options := NewOptions(opts...)

	return &Service{
		options: options,
	}
}
