package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/ratelimit"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newSuggestionService(c Completer, limiter *ratelimit.KeyedRateLimiter) *SuggestionService {
	return NewSuggestionService(c, palette.NewCatalog(), limiter, time.Second, discardLogger())
}

func TestSuggestionService_UsesModelReply(t *testing.T) {
	fc := &fakeCompleter{reply: `{"name":"Tidal Glow","colors":["#0b132b","1C2541","#3A506B","#5BC0BE","#6FFFE9"]}`}
	svc := newSuggestionService(fc, nil)

	s, err := svc.Suggest(context.Background(), "u1", "a calm night by the sea")
	require.NoError(t, err)
	assert.Equal(t, SuggestionSourceAI, s.Source)
	assert.Equal(t, "Tidal Glow", s.Name)
	assert.Equal(t, []string{"#0B132B", "#1C2541", "#3A506B", "#5BC0BE", "#6FFFE9"}, s.Colors)

	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "a calm night by the sea")
}

func TestSuggestionService_MultilinePromptKeepsWordsApart(t *testing.T) {
	fc := &fakeCompleter{reply: `["#0B132B","#1C2541","#3A506B","#5BC0BE","#6FFFE9"]`}
	svc := newSuggestionService(fc, nil)

	_, err := svc.Suggest(context.Background(), "u1", "misty\tforest\nat dawn")
	require.NoError(t, err)

	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], `"misty forest at dawn"`)
}

func TestSuggestionService_FallsBack(t *testing.T) {
	tests := []struct {
		name      string
		completer Completer
	}{
		{"disabled", nil},
		{"model error", &fakeCompleter{err: errors.New("boom")}},
		{"not json", &fakeCompleter{reply: "I think teal would be nice"}},
		{"wrong count", &fakeCompleter{reply: `["#000000","#FFFFFF"]`}},
		{"bad hex", &fakeCompleter{reply: `["#000000","#FFFFFF","#GGGGGG","#111111","#222222"]`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSuggestionService(tt.completer, nil)
			s, err := svc.Suggest(context.Background(), "u1", "autumn leaves")
			require.NoError(t, err)
			assert.Equal(t, SuggestionSourceFallback, s.Source)
			assert.Len(t, s.Colors, palette.ColorsPerPalette)
		})
	}
}

func TestSuggestionService_Validation(t *testing.T) {
	svc := newSuggestionService(nil, nil)
	ctx := context.Background()

	_, err := svc.Suggest(ctx, "", "sunset")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = svc.Suggest(ctx, "u1", "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.Suggest(ctx, "u1", strings.Repeat("a", MaxPromptLength+1))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestSuggestionService_RateLimited(t *testing.T) {
	limiter := ratelimit.New(0.01, 2)
	defer limiter.Stop()
	svc := newSuggestionService(nil, limiter)
	ctx := context.Background()

	for range 2 {
		_, err := svc.Suggest(ctx, "u1", "sunset")
		require.NoError(t, err)
	}
	_, err := svc.Suggest(ctx, "u1", "sunset")
	assert.ErrorIs(t, err, domainerrors.ErrRateLimited)

	// Other users have their own budget.
	_, err = svc.Suggest(ctx, "u2", "sunset")
	assert.NoError(t, err)
}

func TestSuggestionService_CallerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newSuggestionService(&fakeCompleter{err: context.Canceled}, nil)
	_, err := svc.Suggest(ctx, "u1", "sunset")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantName string
		wantErr  bool
	}{
		{
			name:  "bare array",
			reply: `["#111111","#222222","#333333","#444444","#555555"]`,
		},
		{
			name:     "fenced object",
			reply:    "```json\n{\"name\":\" Ash  Grey \",\"colors\":[\"#111\",\"#222\",\"#333\",\"#444\",\"#555\"]}\n```",
			wantName: "Ash Grey",
		},
		{name: "empty object", reply: `{}`, wantErr: true},
		{name: "garbage", reply: `{"colors":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSuggestion(tt.reply)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name)
			assert.Len(t, s.Colors, 5)
			assert.Equal(t, SuggestionSourceAI, s.Source)
		})
	}
}
