package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coloredin/coloredin-server/internal/color"
	"github.com/coloredin/coloredin-server/internal/domain"
	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/id"
	"github.com/coloredin/coloredin-server/internal/normalize"
	"github.com/coloredin/coloredin-server/internal/search"
	"github.com/coloredin/coloredin-server/internal/store"
	"github.com/coloredin/coloredin-server/internal/validation"
)

// MaxPaletteTags caps the tags kept on a user palette.
const MaxPaletteTags = 8

// PaletteStore persists user palettes.
type PaletteStore interface {
	CreatePalette(ctx context.Context, p *domain.Palette) error
	GetPalette(ctx context.Context, id string) (*domain.Palette, error)
	ListPalettesByOwner(ctx context.Context, ownerID string) ([]*domain.Palette, error)
	ListAllPalettes(ctx context.Context) ([]*domain.Palette, error)
	ListRecentPalettes(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Palette], error)
	DeletePalette(ctx context.Context, id string) error
}

// PaletteIndex is the full-text index over user palettes.
type PaletteIndex interface {
	IndexPalette(p *domain.Palette) error
	DeletePalette(id string) error
	Search(ctx context.Context, params search.Params) (*search.Result, error)
	Rebuild(palettes []*domain.Palette) error
}

// PaletteService manages user-created palettes. The store is the source of
// truth; index failures are logged and repaired by Reindex.
type PaletteService struct {
	store     PaletteStore
	index     PaletteIndex
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewPaletteService creates a new palette service.
func NewPaletteService(store PaletteStore, index PaletteIndex, validator *validation.Validator, logger *slog.Logger) *PaletteService {
	return &PaletteService{
		store:     store,
		index:     index,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePaletteInput is the user-supplied part of a new palette.
type CreatePaletteInput struct {
	Name   string   `json:"name" validate:"required,max=60"`
	Colors []string `json:"colors" validate:"len=5,dive,palettecolor"`
	Tags   []string `json:"tags,omitempty" validate:"max=16,dive,palettetag,max=32"`
}

// Create validates, normalises, stores and indexes a palette owned by ownerID.
func (s *PaletteService) Create(ctx context.Context, ownerID string, input CreatePaletteInput) (*domain.Palette, error) {
	if ownerID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	input.Name = normalize.Name(input.Name)
	input.Tags = normalize.Tags(input.Tags)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	colors := make([]string, len(input.Colors))
	for i, c := range input.Colors {
		hex, err := color.NormalizeHex(c)
		if err != nil {
			return nil, domainerrors.Validationf("colors[%d]: %v", i, err)
		}
		colors[i] = hex
	}

	tags := input.Tags
	if len(tags) > MaxPaletteTags {
		tags = tags[:MaxPaletteTags]
	}

	paletteID, err := id.Generate(id.PalettePrefix)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate palette id")
	}

	now := s.now().UTC()
	p := &domain.Palette{
		ID:        paletteID,
		Name:      input.Name,
		Colors:    colors,
		Tags:      tags,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreatePalette(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.New(domainerrors.CodeConflict, "palette already exists").WithCause(err)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "save palette")
	}

	if err := s.index.IndexPalette(p); err != nil {
		s.logger.WarnContext(ctx, "failed to index palette", "palette_id", p.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "palette created", "palette_id", p.ID, "owner_id", ownerID)
	return p, nil
}

// Get returns a palette by id.
func (s *PaletteService) Get(ctx context.Context, paletteID string) (*domain.Palette, error) {
	p, err := s.store.GetPalette(ctx, paletteID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("palette %s not found", paletteID)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load palette")
	}
	return p, nil
}

// ListOwn returns ownerID's palettes, newest first.
func (s *PaletteService) ListOwn(ctx context.Context, ownerID string) ([]*domain.Palette, error) {
	if ownerID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	palettes, err := s.store.ListPalettesByOwner(ctx, ownerID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list palettes")
	}
	return palettes, nil
}

// ListRecent returns every user's palettes, newest first, one page at a time.
func (s *PaletteService) ListRecent(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Palette], error) {
	res, err := s.store.ListRecentPalettes(ctx, params)
	if errors.Is(err, store.ErrInvalidInput) {
		return nil, domainerrors.Validation("invalid cursor").WithCause(err)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list recent palettes")
	}
	return res, nil
}

// Search queries the palette index.
func (s *PaletteService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if params.Limit <= 0 {
		params.Limit = search.DefaultParams().Limit
	}
	params.Limit = min(params.Limit, MaxSearchLimit)

	res, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search palettes")
	}
	return res, nil
}

// Delete removes a palette. Only its owner may delete it.
func (s *PaletteService) Delete(ctx context.Context, userID, paletteID string) error {
	if userID == "" {
		return domainerrors.Unauthorized("authentication required")
	}

	p, err := s.Get(ctx, paletteID)
	if err != nil {
		return err
	}
	if !p.OwnedBy(userID) {
		return domainerrors.Forbidden("only the owner can delete this palette")
	}

	if err := s.store.DeletePalette(ctx, paletteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("palette %s not found", paletteID)
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "delete palette")
	}

	if err := s.index.DeletePalette(paletteID); err != nil {
		s.logger.WarnContext(ctx, "failed to remove palette from index", "palette_id", paletteID, "error", err)
	}

	s.logger.InfoContext(ctx, "palette deleted", "palette_id", paletteID, "owner_id", userID)
	return nil
}

// Reindex rebuilds the search index from the store.
func (s *PaletteService) Reindex(ctx context.Context) (int, error) {
	palettes, err := s.store.ListAllPalettes(ctx)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "list palettes for reindex")
	}
	if err := s.index.Rebuild(palettes); err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "rebuild search index")
	}
	s.logger.InfoContext(ctx, "search index rebuilt", "palettes", len(palettes))
	return len(palettes), nil
}
