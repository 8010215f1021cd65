// Package ai talks to the hosted model that proposes palettes from a text
// description.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Backends.
const (
	BackendGemini   = "gemini"
	BackendVertexAI = "vertex-ai"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

// Config selects the backend and model.
type Config struct {
	Backend string
	Model   string
	APIKey  string
}

// Gemini completes prompts with a Gemini model via the Gen AI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client. The Gemini API backend needs an API key; Vertex
// AI picks up project and location from the environment.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	clientConfig := &genai.ClientConfig{}

	if cfg.Backend == BackendVertexAI {
		clientConfig.Backend = genai.BackendVertexAI
	} else {
		clientConfig.Backend = genai.BackendGeminiAPI
		if cfg.APIKey == "" {
			return nil, errors.New("an API key is required for the Gemini API backend")
		}
		clientConfig.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	return &Gemini{client: client, model: cfg.Model}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// Complete sends prompt and returns the concatenated text parts of the first
// candidate. The model is asked for JSON output.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
