package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/coloredin/coloredin-server/internal/service"
)

func (s *Server) registerAIRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "suggestPalette",
		Method:      http.MethodPost,
		Path:        "/api/v1/ai/palettes",
		Summary:     "Suggest palette",
		Description: "Proposes five colors for a text description. Falls back to a generated scheme when the model is disabled or fails.",
		Tags:        []string{"AI"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSuggestPalette)
}

// SuggestPaletteRequest describes the palette wanted.
type SuggestPaletteRequest struct {
	Prompt string `json:"prompt" doc:"Description such as \"misty forest at dawn\""`
}

// SuggestPaletteInput wraps the suggestion request.
type SuggestPaletteInput struct {
	Authorization string `header:"Authorization"`
	Body          SuggestPaletteRequest
}

// SuggestPaletteOutput wraps a suggestion.
type SuggestPaletteOutput struct {
	Body *service.Suggestion
}

func (s *Server) handleSuggestPalette(ctx context.Context, input *SuggestPaletteInput) (*SuggestPaletteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.services.Suggestion.Suggest(ctx, userID, input.Body.Prompt)
	if err != nil {
		return nil, err
	}
	return &SuggestPaletteOutput{Body: suggestion}, nil
}
