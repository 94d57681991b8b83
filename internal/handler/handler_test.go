package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	formgen "github.com/w-h-a/formgen"
	"github.com/w-h-a/formgen/generator"
	schemagenerator "github.com/w-h-a/formgen/schema_generator"
	"github.com/w-h-a/formgen/store"
	"github.com/w-h-a/formgen/store/memory"
)

type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, opts ...generator.GenerateOption) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type stubEmbedder struct{}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func newRouter(gen generator.Generator) (http.Handler, store.Store) {
	st := memory.NewStore()

	svc := formgen.NewService(
		formgen.WithEmbedder(&stubEmbedder{}),
		formgen.WithIndex(st),
		formgen.WithStore(st),
		formgen.WithSchemaGenerator(schemagenerator.NewSchemaGenerator(schemagenerator.WithGenerator(gen))),
	)

	return NewRouter(svc), st
}

func TestGenerateEndpoint(t *testing.T) {
	router, _ := newRouter(&stubGenerator{
		response: `{"title":"Signup","fields":[{"id":"email","type":"email","label":"Email","required":true}]}`,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":"signup form","ownerId":"u1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Schema struct {
			Title string `json:"title"`
		} `json:"schema"`
		ContextUsed bool `json:"contextUsed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Schema.Title != "Signup" {
		t.Fatalf("title = %q, want Signup", body.Schema.Title)
	}
	if body.ContextUsed {
		t.Fatal("contextUsed = true, want false")
	}
}

func TestGenerateEndpointRequiresPrompt(t *testing.T) {
	router, _ := newRouter(&stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateEndpointDistinguishesRateLimit(t *testing.T) {
	router, _ := newRouter(&stubGenerator{err: generator.ErrRateLimited})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":"signup form"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "rate limiting") {
		t.Fatalf("body = %s, want rate limit message", rec.Body.String())
	}
}

func TestGenerateEndpointDistinguishesQuota(t *testing.T) {
	router, _ := newRouter(&stubGenerator{err: generator.ErrQuotaExhausted})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":"signup form"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "quota") {
		t.Fatalf("body = %s, want quota message", rec.Body.String())
	}
}

func TestEmbedEndpoint(t *testing.T) {
	router, st := newRouter(&stubGenerator{})

	id, err := st.Create(context.Background(), store.Record{OwnerId: "u1", Title: "Feedback"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/embeddings", strings.NewReader(`{"id":"`+id+`","text":"Feedback form"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success    bool `json:"success"`
		Dimensions int  `json:"dimensions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !body.Success || body.Dimensions != 3 {
		t.Fatalf("body = %+v", body)
	}

	records, _ := st.FetchByIds(context.Background(), []string{id})
	if len(records) != 1 || len(records[0].Embedding) == 0 {
		t.Fatal("embedding was not stored")
	}
}

func TestEmbedEndpointValidatesInput(t *testing.T) {
	router, _ := newRouter(&stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/embeddings", strings.NewReader(`{"id":"","text":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newRouter(&stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
