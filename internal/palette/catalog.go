package palette

import (
	"iter"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/coloredin/coloredin-server/internal/plan"
)

// DefaultPageSize is used when a page request carries no positive size.
const DefaultPageSize = 50

// Search scopes, used as metric labels.
const (
	ScopeAll  = "all"
	ScopePlan = "plan"
)

// Page is one window of the plan-gated catalog.
type Page struct {
	Palettes []Palette `json:"palettes"`
	HasMore  bool      `json:"has_more"`
	Total    int       `json:"total"`
}

// Catalog memoizes generated palettes by index. The cache grows without bound
// up to CatalogSize entries and lives as long as the Catalog.
//
// Catalog is safe for concurrent use. Two goroutines missing the same index
// may both generate it; the first insert wins and both results are identical.
type Catalog struct {
	mu    sync.RWMutex
	cache map[int]Palette

	intN    func(n int) int
	metrics *Metrics
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRand sets the source used by RandomPalette and RandomColors.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) {
		c.intN = r.IntN
	}
}

// WithMetrics records cache and search metrics on m. Without it the catalog
// records nothing.
func WithMetrics(m *Metrics) Option {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// NewCatalog creates an empty catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		cache: make(map[int]Palette),
		intN:  rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get returns the cached palette, generating it on first access. The result
// shares slices with the cache and must not escape without Clone.
func (c *Catalog) get(index int) Palette {
	c.mu.RLock()
	p, ok := c.cache[index]
	c.mu.RUnlock()
	if ok {
		return p
	}

	generated := GeneratePaletteByIndex(index)

	c.mu.Lock()
	if existing, ok := c.cache[index]; ok {
		c.mu.Unlock()
		return existing
	}
	c.cache[index] = generated
	size := len(c.cache)
	c.mu.Unlock()

	c.metrics.generated(generated.Scheme, size)

	return generated
}

// PaletteByIndex returns the palette at index. ok is false outside the catalog.
func (c *Catalog) PaletteByIndex(index int) (p Palette, ok bool) {
	if !InCatalog(index) {
		return Palette{}, false
	}
	return c.get(index).Clone(), true
}

// PalettesInRange returns palettes for [start, end) in index order, with start
// clamped to 0 and end clamped to CatalogSize.
func (c *Catalog) PalettesInRange(start, end int) []Palette {
	start = max(start, 0)
	end = min(end, CatalogSize)
	if start >= end {
		return []Palette{}
	}

	out := make([]Palette, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, c.get(i).Clone())
	}
	return out
}

// PalettesByPlan returns the 0-based page of the catalog visible to planName.
// Unknown plans see the free ceiling. Total is the plan ceiling and HasMore is
// false once the page reaches it.
func (c *Catalog) PalettesByPlan(planName string, page, pageSize int) Page {
	ceiling := plan.Parse(planName).Ceiling()
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page = max(page, 0)

	// Guard the multiplication for absurd page numbers.
	if page > ceiling/pageSize {
		return Page{Palettes: []Palette{}, HasMore: false, Total: ceiling}
	}

	start := page * pageSize
	end := min(start+pageSize, ceiling)
	return Page{
		Palettes: c.PalettesInRange(start, end),
		HasMore:  end < ceiling,
		Total:    ceiling,
	}
}

// FreePalettes pages through the free tier.
func (c *Catalog) FreePalettes(page, pageSize int) Page {
	return c.PalettesByPlan(string(plan.Free), page, pageSize)
}

// SearchAll scans the whole catalog. See Scan for matching rules.
func (c *Catalog) SearchAll(query string) []Palette {
	return collect(c.Scan(query, CatalogSize, ScopeAll))
}

// Search scans the catalog up to the ceiling of planName.
func (c *Catalog) Search(query, planName string) []Palette {
	return collect(c.Scan(query, plan.Parse(planName).Ceiling(), ScopePlan))
}

// Scan lazily yields palettes below ceiling whose name contains query
// (case-insensitive) or that carry a tag equal to query. A blank query yields
// nothing. Breaking out of the loop stops generation.
func (c *Catalog) Scan(query string, ceiling int, scope string) iter.Seq[Palette] {
	q := strings.ToLower(strings.TrimSpace(query))
	ceiling = min(ceiling, CatalogSize)

	return func(yield func(Palette) bool) {
		if q == "" {
			return
		}
		start := time.Now()
		defer func() {
			c.metrics.observeSearch(scope, time.Since(start).Seconds())
		}()

		for i := 0; i < ceiling; i++ {
			p := c.get(i)
			if !matches(p, q) {
				continue
			}
			if !yield(p.Clone()) {
				return
			}
		}
	}
}

func matches(p Palette, lowered string) bool {
	if strings.Contains(strings.ToLower(p.Name), lowered) {
		return true
	}
	return slices.Contains(p.Tags, lowered)
}

func collect(seq iter.Seq[Palette]) []Palette {
	out := []Palette{}
	for p := range seq {
		out = append(out, p)
	}
	return out
}

// RandomPalette returns the colors of a random free-tier palette.
func (c *Catalog) RandomPalette() []string {
	return slices.Clone(c.get(c.intN(FreeThreshold)).Colors)
}

// RandomColors returns a fresh 5-color scheme. The count argument is accepted
// for call-site compatibility and ignored.
func (c *Catalog) RandomColors(int) []string {
	return GenerateColors(int64(c.intN(math.MaxInt32)))
}

// Warm generates the first n palettes into the cache.
func (c *Catalog) Warm(n int) {
	n = min(n, CatalogSize)
	for i := 0; i < n; i++ {
		c.get(i)
	}
}

// CacheSize returns the number of memoized palettes.
func (c *Catalog) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Reset drops every memoized palette.
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.cache = make(map[int]Palette)
	c.mu.Unlock()
	c.metrics.reset()
}
