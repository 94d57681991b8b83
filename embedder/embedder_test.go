package embedder

import "testing"

func TestCoerceTruncatesLongVectors(t *testing.T) {
	vec := make([]float32, 2000)
	for i := range vec {
		vec[i] = float32(i)
	}

	out := Coerce(vec, DefaultDimensions)
	if len(out) != DefaultDimensions {
		t.Fatalf("len = %d, want %d", len(out), DefaultDimensions)
	}
	if out[767] != 767 {
		t.Fatalf("out[767] = %v, want 767", out[767])
	}
}

func TestCoercePadsShortVectors(t *testing.T) {
	vec := make([]float32, 100)
	for i := range vec {
		vec[i] = 1
	}

	out := Coerce(vec, DefaultDimensions)
	if len(out) != DefaultDimensions {
		t.Fatalf("len = %d, want %d", len(out), DefaultDimensions)
	}
	if out[99] != 1 {
		t.Fatalf("out[99] = %v, want 1", out[99])
	}
	if out[100] != 0 {
		t.Fatalf("out[100] = %v, want 0", out[100])
	}
}

func TestCoerceKeepsExactVectors(t *testing.T) {
	vec := make([]float32, DefaultDimensions)
	out := Coerce(vec, DefaultDimensions)
	if len(out) != DefaultDimensions {
		t.Fatalf("len = %d, want %d", len(out), DefaultDimensions)
	}
}
