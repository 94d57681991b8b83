package schemagenerator

import (
	"context"

	"github.com/w-h-a/formgen/generator"
)

type Option func(*Options)

type Options struct {
	Generator generator.Generator
	Context   context.Context
}

func WithGenerator(g generator.Generator) Option {
	return func(o *Options) {
		o.Generator = g
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
