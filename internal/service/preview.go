package service

import (
	"log/slog"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/preview"
)

// PreviewService renders catalog palettes as images.
type PreviewService struct {
	catalog *CatalogService
	logger  *slog.Logger
}

// NewPreviewService creates a new preview service.
func NewPreviewService(catalog *CatalogService, logger *slog.Logger) *PreviewService {
	return &PreviewService{catalog: catalog, logger: logger}
}

// CatalogPNG renders the palette at index, captioned with its name unless
// label is false.
func (s *PreviewService) CatalogPNG(index, width, height int, label bool) ([]byte, error) {
	p, err := s.catalog.Get(index)
	if err != nil {
		return nil, err
	}

	opts := preview.Options{Width: width, Height: height}
	if label {
		opts.Label = p.Name
	}

	data, err := preview.EncodePNG(p.Colors, opts)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "render preview")
	}
	return data, nil
}

// CatalogBlurHash returns the BlurHash placeholder for the palette at index.
func (s *PreviewService) CatalogBlurHash(index int) (string, error) {
	p, err := s.catalog.Get(index)
	if err != nil {
		return "", err
	}

	hash, err := preview.BlurHash(p.Colors)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "compute blurhash")
	}
	return hash, nil
}
