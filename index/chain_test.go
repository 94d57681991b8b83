package index

import (
	"context"
	"errors"
	"testing"
)

type fakeIndex struct {
	matches []Match
	err     error
	calls   int
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, ownerId string, limit int) ([]Match, error) {
	f.calls++
	return f.matches, f.err
}

func TestChainUsesPrimaryWhenItHasMatches(t *testing.T) {
	primary := &fakeIndex{matches: []Match{{Id: "a", Similarity: 0.9}}}
	fallback := &fakeIndex{matches: []Match{{Id: "b", Similarity: 0.5}}}

	matches, err := NewChain(primary, fallback).Search(context.Background(), []float32{1}, "u1", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Id != "a" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback should not be consulted")
	}
}

func TestChainFallsBackOnEmptyPrimary(t *testing.T) {
	primary := &fakeIndex{}
	fallback := &fakeIndex{matches: []Match{{Id: "b", Similarity: 0.5}}}

	matches, err := NewChain(primary, fallback).Search(context.Background(), []float32{1}, "u1", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Id != "b" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestChainFallsBackOnPrimaryError(t *testing.T) {
	primary := &fakeIndex{err: errors.New("down")}
	fallback := &fakeIndex{matches: []Match{{Id: "b", Similarity: 0.5}}}

	matches, err := NewChain(primary, fallback).Search(context.Background(), []float32{1}, "u1", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Id != "b" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestChainWithoutPrimary(t *testing.T) {
	fallback := &fakeIndex{matches: []Match{{Id: "b", Similarity: 0.5}}}

	matches, err := NewChain(nil, fallback).Search(context.Background(), []float32{1}, "u1", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	c := []float32{1, 0}

	if sim := CosineSimilarity(a, b); sim != 0 {
		t.Fatalf("CosineSimilarity(a,b) = %v, want 0", sim)
	}
	if sim := CosineSimilarity(a, c); sim != 1 {
		t.Fatalf("CosineSimilarity(a,c) = %v, want 1", sim)
	}
	if sim := CosineSimilarity(a, []float32{1}); sim != 0 {
		t.Fatalf("mismatched lengths should score 0, got %v", sim)
	}
}
