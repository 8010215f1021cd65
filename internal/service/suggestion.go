package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coloredin/coloredin-server/internal/color"
	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/normalize"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/ratelimit"
)

// Completer sends a prompt to a text model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Suggestion sources.
const (
	SuggestionSourceAI       = "ai"
	SuggestionSourceFallback = "fallback"
)

// MaxPromptLength bounds the description sent to the model.
const MaxPromptLength = 280

// Suggestion is a proposed palette.
type Suggestion struct {
	Name   string   `json:"name,omitempty"`
	Colors []string `json:"colors"`
	Source string   `json:"source"`
}

// SuggestionService proposes palettes for a text description. Without a
// completer, or when the model fails or answers with something unusable, it
// falls back to a freshly generated catalog scheme.
type SuggestionService struct {
	completer Completer
	catalog   *palette.Catalog
	limiter   *ratelimit.KeyedRateLimiter
	timeout   time.Duration
	logger    *slog.Logger
}

// NewSuggestionService creates a suggestion service. completer and limiter may
// be nil.
func NewSuggestionService(completer Completer, catalog *palette.Catalog, limiter *ratelimit.KeyedRateLimiter, timeout time.Duration, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{
		completer: completer,
		catalog:   catalog,
		limiter:   limiter,
		timeout:   timeout,
		logger:    logger,
	}
}

// Enabled reports whether a model is configured.
func (s *SuggestionService) Enabled() bool {
	return s.completer != nil
}

// Suggest proposes a palette for description on behalf of userID.
func (s *SuggestionService) Suggest(ctx context.Context, userID, description string) (*Suggestion, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	description = normalize.Name(description)
	if description == "" {
		return nil, domainerrors.Validation("prompt is required")
	}
	if len([]rune(description)) > MaxPromptLength {
		return nil, domainerrors.Validationf("prompt must not exceed %d characters", MaxPromptLength)
	}

	if s.limiter != nil && !s.limiter.Allow(userID) {
		return nil, domainerrors.RateLimited("too many palette suggestions, try again shortly").
			WithDetails(map[string]any{"retry_after_seconds": int(s.limiter.RetryAfter(userID).Seconds())})
	}

	if s.completer == nil {
		return s.fallback(), nil
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.completer.Complete(callCtx, buildSuggestionPrompt(description))
	if err != nil {
		// The caller going away is not a model failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WarnContext(ctx, "palette suggestion failed, using fallback", "user_id", userID, "error", err)
		return s.fallback(), nil
	}

	suggestion, err := ParseSuggestion(reply)
	if err != nil {
		s.logger.WarnContext(ctx, "unusable palette suggestion, using fallback", "user_id", userID, "error", err)
		return s.fallback(), nil
	}
	return suggestion, nil
}

func (s *SuggestionService) fallback() *Suggestion {
	return &Suggestion{
		Colors: s.catalog.RandomColors(palette.ColorsPerPalette),
		Source: SuggestionSourceFallback,
	}
}

func buildSuggestionPrompt(description string) string {
	return fmt.Sprintf(`Design a color palette of exactly %d colors for: %q.
Reply with JSON only, in the form {"name": "<two or three word name>", "colors": ["#RRGGBB", ...]}.
Order the colors from darkest to lightest.`, palette.ColorsPerPalette, description)
}

var errNoColors = errors.New("reply has no color list")

// ParseSuggestion extracts a palette from a model reply. The reply may be a
// JSON object with name and colors, a bare JSON array of colors, or either of
// those wrapped in a Markdown code fence.
func ParseSuggestion(reply string) (*Suggestion, error) {
	body := stripCodeFence(reply)

	var payload struct {
		Name   string   `json:"name"`
		Colors []string `json:"colors"`
	}
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &payload.Colors); err != nil {
			return nil, fmt.Errorf("decode color array: %w", err)
		}
	} else if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}

	if len(payload.Colors) == 0 {
		return nil, errNoColors
	}
	if len(payload.Colors) != palette.ColorsPerPalette {
		return nil, fmt.Errorf("reply has %d colors, want %d", len(payload.Colors), palette.ColorsPerPalette)
	}

	colors := make([]string, len(payload.Colors))
	for i, c := range payload.Colors {
		c = strings.TrimSpace(c)
		if c != "" && !strings.HasPrefix(c, "#") {
			c = "#" + c
		}
		hex, err := color.NormalizeHex(c)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		colors[i] = hex
	}

	return &Suggestion{
		Name:   normalize.Name(payload.Name),
		Colors: colors,
		Source: SuggestionSourceAI,
	}, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an info string such as "json".
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
