package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/formgen/generator"
	"google.golang.org/api/googleapi"
	genaiopt "google.golang.org/api/option"
)

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Generate(ctx context.Context, prompt string, opts ...generator.GenerateOption) (string, error) {
	options := generator.NewGenerateOptions(opts...)

	model := g.client.GenerativeModel(g.options.Model)
	model.SetTemperature(options.Temperature)
	model.SetMaxOutputTokens(int32(options.MaxTokens))

	if len(options.System) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(options.System)},
		}
	}

	rsp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(err)
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Google")
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String(), nil
}

// classify maps Gemini 429s onto the shared failure sentinels. Gemini
// reports both throttling and exhausted quota as 429 RESOURCE_EXHAUSTED, so
// the quota case is detected from the error detail.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.Code == 429 {
		if strings.Contains(strings.ToLower(apiErr.Message), "quota") {
			return fmt.Errorf("%w: %s", generator.ErrQuotaExhausted, apiErr.Message)
		}
		return fmt.Errorf("%w: %s", generator.ErrRateLimited, apiErr.Message)
	}

	return err
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &googleGenerator{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	g.client = client

	return g
}
