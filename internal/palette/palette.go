// Package palette derives a virtual catalog of color palettes from catalog
// indices. Generation is a pure function of the index; Catalog memoizes it and
// exposes range, plan-gated paging and search over the catalog.
package palette

import (
	"slices"
	"strconv"
)

// Catalog dimensions.
const (
	// CatalogSize is the number of addressable catalog indices, [0, CatalogSize).
	CatalogSize = 50000

	// FreeThreshold is the first index that is not free.
	FreeThreshold = 2000

	seedMultiplier = 12345
	seedOffset     = 67890
	nameSeedOffset = 11111
	tagSeedOffset  = 22222
)

// Palette is a generated catalog entry. It is never persisted.
type Palette struct {
	ID     string   `json:"id"` // 1-based index
	Index  int      `json:"index"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
	Tags   []string `json:"tags"`
	Scheme Scheme   `json:"scheme"`
	IsFree bool     `json:"is_free"`
}

// Seed returns the generation seed for a catalog index.
func Seed(index int) int64 {
	return int64(index)*seedMultiplier + seedOffset
}

// GeneratePaletteByIndex builds the palette at index without consulting any
// cache. The result depends only on index.
func GeneratePaletteByIndex(index int) Palette {
	seed := Seed(index)
	scheme, colors := generateColors(seed)

	return Palette{
		ID:     strconv.Itoa(index + 1),
		Index:  index,
		Name:   GenerateName(seed + nameSeedOffset),
		Colors: colors,
		Tags:   GenerateTags(colors, seed+tagSeedOffset),
		Scheme: scheme,
		IsFree: IsFreeIndex(index),
	}
}

// IsFreeIndex reports whether index falls in the free tier.
func IsFreeIndex(index int) bool {
	return index >= 0 && index < FreeThreshold
}

// InCatalog reports whether index is addressable.
func InCatalog(index int) bool {
	return index >= 0 && index < CatalogSize
}

// Clone returns a deep copy of p.
func (p Palette) Clone() Palette {
	p.Colors = slices.Clone(p.Colors)
	p.Tags = slices.Clone(p.Tags)
	return p
}
