package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/formgen/index"
	"github.com/w-h-a/formgen/store"
)

// memoryStore keeps forms in process. It doubles as the zero-infrastructure
// similarity index: Search satisfies index.Index with the same threshold
// semantics as the relational backend.
type memoryStore struct {
	options store.Options
	records map[string]store.Record
	order   []string
	mtx     sync.RWMutex
}

func (s *memoryStore) Create(ctx context.Context, record store.Record) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(record.Id) == 0 {
		record.Id = uuid.New().String()
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, exists := s.records[record.Id]; !exists {
		s.order = append(s.order, record.Id)
	}

	s.records[record.Id] = record

	return record.Id, nil
}

func (s *memoryStore) FetchByIds(ctx context.Context, ids []string) ([]store.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	records := make([]store.Record, 0, len(ids))

	for _, id := range ids {
		if rec, exists := s.records[id]; exists {
			records = append(records, rec)
		}
	}

	return records, nil
}

func (s *memoryStore) PersistEmbedding(ctx context.Context, id string, vector []float32, summary string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	rec, exists := s.records[id]
	if !exists {
		return fmt.Errorf("form %s not found", id)
	}

	cpy := make([]float32, len(vector))
	copy(cpy, vector)

	rec.Embedding = cpy
	rec.Summary = summary
	rec.UpdatedAt = time.Now().UTC()

	s.records[id] = rec

	return nil
}

func (s *memoryStore) Search(ctx context.Context, vector []float32, ownerId string, limit int) ([]index.Match, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var candidates []index.Match

	// Insertion order keeps equal-similarity ties stable.
	for _, id := range s.order {
		rec := s.records[id]
		if len(rec.Embedding) == 0 {
			continue
		}
		if len(ownerId) > 0 && rec.OwnerId != ownerId {
			continue
		}

		score := index.CosineSimilarity(vector, rec.Embedding)
		if score <= index.DefaultThreshold {
			continue
		}

		candidates = append(candidates, index.Match{
			Id:         rec.Id,
			Title:      rec.Title,
			Summary:    rec.Summary,
			Similarity: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func NewStore(opts ...store.Option) *memoryStore {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		records: map[string]store.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
