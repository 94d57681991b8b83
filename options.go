package formgen

import (
	"context"

	"github.com/w-h-a/formgen/embedder"
	"github.com/w-h-a/formgen/index"
	schemagenerator "github.com/w-h-a/formgen/schema_generator"
	"github.com/w-h-a/formgen/store"
)

type Option func(*Options)

type Options struct {
	Embedder        embedder.Embedder
	Index           index.Index
	Store           store.Store
	SchemaGenerator schemagenerator.SchemaGenerator
	TopK            int
	Context         context.Context
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = e
	}
}

func WithIndex(i index.Index) Option {
	return func(o *Options) {
		o.Index = i
	}
}

func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

func WithSchemaGenerator(g schemagenerator.SchemaGenerator) Option {
	return func(o *Options) {
		o.SchemaGenerator = g
	}
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:    index.DefaultTopK,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
