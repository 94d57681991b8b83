package index

import (
	"context"
	"log/slog"
)

// chain tries the primary backend first and falls through to the fallback
// when the primary is absent, errors, or returns nothing. The priority order
// is fixed per request.
type chain struct {
	primary  Index
	fallback Index
}

func (c *chain) Search(ctx context.Context, vector []float32, ownerId string, limit int) ([]Match, error) {
	if c.primary != nil {
		matches, err := c.primary.Search(ctx, vector, ownerId, limit)
		if err != nil {
			slog.WarnContext(ctx, "primary index search failed, falling back", "error", err)
		} else if len(matches) > 0 {
			return matches, nil
		}
	}

	if c.fallback == nil {
		return nil, nil
	}

	return c.fallback.Search(ctx, vector, ownerId, limit)
}

func (c *chain) Upsert(ctx context.Context, id string, vector []float32, ownerId string, title string, summary string) error {
	if up, ok := c.primary.(Upserter); ok {
		return up.Upsert(ctx, id, vector, ownerId, title, summary)
	}
	if up, ok := c.fallback.(Upserter); ok {
		return up.Upsert(ctx, id, vector, ownerId, title, summary)
	}
	return nil
}

// NewChain composes two backends behind one Index. Either may be nil.
func NewChain(primary, fallback Index) Index {
	return &chain{
		primary:  primary,
		fallback: fallback,
	}
}
