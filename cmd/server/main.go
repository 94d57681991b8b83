package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	formgen "github.com/w-h-a/formgen"
	"github.com/w-h-a/formgen/embedder"
	googleembedder "github.com/w-h-a/formgen/embedder/google"
	openaiembedder "github.com/w-h-a/formgen/embedder/openai"
	"github.com/w-h-a/formgen/generator"
	anthropicgenerator "github.com/w-h-a/formgen/generator/anthropic"
	googlegenerator "github.com/w-h-a/formgen/generator/google"
	openaigenerator "github.com/w-h-a/formgen/generator/openai"
	"github.com/w-h-a/formgen/index"
	postgresindex "github.com/w-h-a/formgen/index/postgres"
	"github.com/w-h-a/formgen/index/qdrant"
	"github.com/w-h-a/formgen/internal/handler"
	schemagenerator "github.com/w-h-a/formgen/schema_generator"
	"github.com/w-h-a/formgen/store"
	memorystore "github.com/w-h-a/formgen/store/memory"
	postgresstore "github.com/w-h-a/formgen/store/postgres"
)

var (
	cfg struct {
		// Server config
		Addr string `help:"Address to listen on" default:":8080" env:"ADDR"`

		// Embedding config
		EmbeddingProvider string `help:"Embedding provider (openai or google)" default:"openai" env:"EMBEDDING_PROVIDER"`
		EmbeddingApiKey   string `help:"API key for the embedding provider" default:"" env:"EMBEDDING_API_KEY"`
		EmbeddingModel    string `help:"Model identifier for vector embeddings; provider default when empty" default:"" env:"EMBEDDING_MODEL"`

		// Completion config
		CompletionProvider string `help:"Completion provider (openai, anthropic, or google)" default:"openai" env:"COMPLETION_PROVIDER"`
		CompletionApiKey   string `help:"API key for the completion provider" default:"" env:"COMPLETION_API_KEY"`
		CompletionModel    string `help:"Model identifier for schema generation; provider default when empty" default:"" env:"COMPLETION_MODEL"`

		// Storage config
		DatabaseUrl string `help:"Postgres connection string; in-memory storage when empty" default:"" env:"DATABASE_URL"`

		// External vector index config
		QdrantUrl        string `help:"Qdrant base URL; relational fallback only when empty" default:"" env:"QDRANT_URL"`
		QdrantApiKey     string `help:"Qdrant API key" default:"" env:"QDRANT_API_KEY"`
		QdrantCollection string `help:"Qdrant collection name" default:"forms" env:"QDRANT_COLLECTION"`
	}
)

func defaultEmbeddingModel(provider string) string {
	if provider == "google" {
		return "text-embedding-004"
	}
	return "text-embedding-3-small"
}

func defaultCompletionModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-3-5-haiku-latest"
	case "google":
		return "gemini-1.5-flash"
	default:
		return "gpt-4o-mini"
	}
}

func main() {
	// Parse inputs
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	if len(cfg.EmbeddingModel) == 0 {
		cfg.EmbeddingModel = defaultEmbeddingModel(cfg.EmbeddingProvider)
	}
	if len(cfg.CompletionModel) == 0 {
		cfg.CompletionModel = defaultCompletionModel(cfg.CompletionProvider)
	}

	// Create embedder
	var emb embedder.Embedder
	switch {
	case len(cfg.EmbeddingApiKey) == 0:
		slog.Warn("no embedding credential; memory retrieval disabled")
	case cfg.EmbeddingProvider == "google":
		emb = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbeddingApiKey),
			embedder.WithModel(cfg.EmbeddingModel),
		)
	default:
		emb = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbeddingApiKey),
			embedder.WithModel(cfg.EmbeddingModel),
		)
	}

	// Create store and fallback index
	var st store.Store
	var fallback index.Index
	if len(cfg.DatabaseUrl) > 0 {
		st = postgresstore.NewStore(
			store.WithLocation(cfg.DatabaseUrl),
		)
		fallback = postgresindex.NewIndex(
			index.WithLocation(cfg.DatabaseUrl),
		)
	} else {
		slog.Warn("no database configured; using in-memory storage")
		mem := memorystore.NewStore()
		st = mem
		fallback = mem
	}

	// Create external index when configured
	var primary index.Index
	if len(cfg.QdrantUrl) > 0 && len(cfg.QdrantCollection) > 0 {
		primary = qdrant.NewIndex(
			index.WithLocation(cfg.QdrantUrl),
			index.WithApiKey(cfg.QdrantApiKey),
			index.WithCollection(cfg.QdrantCollection),
			index.WithVectorSize(embedder.DefaultDimensions),
		)
	}

	// Create completion generator
	var gen generator.Generator
	switch {
	case len(cfg.CompletionApiKey) == 0:
		slog.Error("no completion credential; schema generation will fail until one is configured")
	case cfg.CompletionProvider == "anthropic":
		gen = anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.CompletionApiKey),
			generator.WithModel(cfg.CompletionModel),
		)
	case cfg.CompletionProvider == "google":
		gen = googlegenerator.NewGenerator(
			generator.WithApiKey(cfg.CompletionApiKey),
			generator.WithModel(cfg.CompletionModel),
		)
	default:
		gen = openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.CompletionApiKey),
			generator.WithModel(cfg.CompletionModel),
		)
	}

	// Wire the pipeline
	svc := formgen.NewService(
		formgen.WithEmbedder(emb),
		formgen.WithIndex(index.NewChain(primary, fallback)),
		formgen.WithStore(st),
		formgen.WithSchemaGenerator(schemagenerator.NewSchemaGenerator(
			schemagenerator.WithGenerator(gen),
		)),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.NewRouter(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("listening", "addr", cfg.Addr)
	log.Fatal(srv.ListenAndServe())
}
