package rag

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"
)

// GenkitGenerator implements Generator on a Genkit runtime. Output is
// constrained to JSON at the provider level so the grounded-answer contract
// does not depend on prompt compliance alone.
type GenkitGenerator struct {
	g         *genkit.Genkit
	modelName string
}

// NewGenkitGenerator creates a generator bound to one model.
func NewGenkitGenerator(g *genkit.Genkit, modelName string) *GenkitGenerator {
	return &GenkitGenerator{g: g, modelName: modelName}
}

// Generate runs one completion and returns the model's text output.
func (gg *GenkitGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, gg.g,
		ai.WithModelName(gg.modelName),
		ai.WithSystem(system),
		ai.WithPrompt(prompt),
		ai.WithConfig(&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		}),
	)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", gg.modelName, err)
	}
	return resp.Text(), nil
}
