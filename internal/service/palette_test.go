package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/id"
	"github.com/coloredin/coloredin-server/internal/search"
	"github.com/coloredin/coloredin-server/internal/store"
)

func validInput() CreatePaletteInput {
	return CreatePaletteInput{
		Name:   "  Harbor   Dusk ",
		Colors: []string{"#1a2b3c", "#2A4B6C", "#3a6b9c", "#48C", "#5AABFC"},
		Tags:   []string{"Cool", "Sea Foam", "cool"},
	}
}

func TestPaletteService_Create(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	p, err := env.palettes.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	assert.True(t, id.HasPrefix(p.ID, id.PalettePrefix))
	assert.Equal(t, "Harbor Dusk", p.Name)
	assert.Equal(t, []string{"#1A2B3C", "#2A4B6C", "#3A6B9C", "#4488CC", "#5AABFC"}, p.Colors)
	assert.Equal(t, []string{"cool", "sea-foam"}, p.Tags)
	assert.Equal(t, "alice", p.OwnerID)

	stored, err := env.palettes.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Colors, stored.Colors)

	count, err := env.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestPaletteService_CreateValidation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.palettes.Create(ctx, "", validInput())
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	tests := []struct {
		name   string
		mutate func(*CreatePaletteInput)
	}{
		{"blank name", func(in *CreatePaletteInput) { in.Name = "   " }},
		{"four colors", func(in *CreatePaletteInput) { in.Colors = in.Colors[:4] }},
		{"bad color", func(in *CreatePaletteInput) { in.Colors[0] = "red" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := env.palettes.Create(ctx, "alice", in)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestPaletteService_CreateValidatesNormalizedTags(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	in := validInput()
	in.Tags = []string{"Pâtisserie!", "  ", "80s Neon"}
	p, err := env.palettes.Create(ctx, "alice", in)
	require.NoError(t, err)
	assert.Equal(t, []string{"patisserie", "80s-neon"}, p.Tags)

	in = validInput()
	in.Tags = []string{strings.Repeat("long", 10)}
	_, err = env.palettes.Create(ctx, "alice", in)
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, map[string]string{"tags[0]": "must not exceed 32 characters"}, de.Details)
}

func TestPaletteService_ListAndSearch(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	env.palettes.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := env.palettes.Create(ctx, "alice", validInput())
	require.NoError(t, err)
	in := validInput()
	in.Name = "Forest Canopy"
	in.Tags = []string{"natural"}
	second, err := env.palettes.Create(ctx, "bob", in)
	require.NoError(t, err)

	own, err := env.palettes.ListOwn(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, first.ID, own[0].ID)

	recent, err := env.palettes.ListRecent(ctx, store.PaginationParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent.Items, 1)
	assert.Equal(t, second.ID, recent.Items[0].ID)
	assert.True(t, recent.HasMore)

	recent, err = env.palettes.ListRecent(ctx, store.PaginationParams{Limit: 1, Cursor: recent.NextCursor})
	require.NoError(t, err)
	require.Len(t, recent.Items, 1)
	assert.Equal(t, first.ID, recent.Items[0].ID)
	assert.False(t, recent.HasMore)

	_, err = env.palettes.ListRecent(ctx, store.PaginationParams{Cursor: "!!!"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	res, err := env.palettes.Search(ctx, search.Params{Query: "forest"})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, second.ID, res.Hits[0].ID)
}

func TestPaletteService_Delete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	p, err := env.palettes.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	err = env.palettes.Delete(ctx, "mallory", p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = env.palettes.Delete(ctx, "", p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	require.NoError(t, env.palettes.Delete(ctx, "alice", p.ID))

	_, err = env.palettes.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = env.palettes.Delete(ctx, "alice", p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	count, err := env.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestPaletteService_Reindex(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	for range 3 {
		_, err := env.palettes.Create(ctx, "alice", validInput())
		require.NoError(t, err)
	}
	require.NoError(t, env.index.Rebuild(nil))

	n, err := env.palettes.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := env.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}
