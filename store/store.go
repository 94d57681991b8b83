package store

import (
	"context"
	"time"

	"github.com/w-h-a/formgen/schema"
)

// Record is a stored form owned by a single user. Embedding and Summary stay
// empty until the background indexing step has run; a record without them is
// still a valid form, it just never shows up in memory retrieval.
type Record struct {
	Id          string
	OwnerId     string
	Title       string
	Description string
	Schema      schema.Schema
	Embedding   []float32
	Summary     string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Store interface {
	Create(ctx context.Context, record Record) (string, error)
	FetchByIds(ctx context.Context, ids []string) ([]Record, error)
	PersistEmbedding(ctx context.Context, id string, vector []float32, summary string) error
}
