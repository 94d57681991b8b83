package main

import "testing"

func TestDefaultEmbeddingModelPerProvider(t *testing.T) {
	if got := defaultEmbeddingModel("google"); got != "text-embedding-004" {
		t.Fatalf("google embedding default = %q", got)
	}
	if got := defaultEmbeddingModel("openai"); got != "text-embedding-3-small" {
		t.Fatalf("openai embedding default = %q", got)
	}
}

func TestDefaultCompletionModelPerProvider(t *testing.T) {
	for provider, want := range map[string]string{
		"openai":    "gpt-4o-mini",
		"anthropic": "claude-3-5-haiku-latest",
		"google":    "gemini-1.5-flash",
	} {
		if got := defaultCompletionModel(provider); got != want {
			t.Fatalf("%s completion default = %q, want %q", provider, got, want)
		}
	}
}
