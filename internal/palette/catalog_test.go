package palette

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloredin/coloredin-server/internal/plan"
)

var hexRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func assertShape(t *testing.T, p Palette) {
	t.Helper()
	require.Len(t, p.Colors, 5, "palette %s", p.ID)
	for _, c := range p.Colors {
		require.Regexp(t, hexRe, c)
	}
	require.GreaterOrEqual(t, len(p.Tags), 1)
	require.LessOrEqual(t, len(p.Tags), 4)
	seen := make(map[string]bool)
	for _, tag := range p.Tags {
		require.Equal(t, strings.ToLower(tag), tag)
		require.False(t, seen[tag], "duplicate tag %q in %v", tag, p.Tags)
		seen[tag] = true
	}
}

func TestGeneratePaletteByIndex_Deterministic(t *testing.T) {
	c := NewCatalog()
	for _, i := range []int{0, 1, 1999, 2000, 12345, 49999} {
		first, ok := c.PaletteByIndex(i)
		require.True(t, ok)
		c.Reset()
		second, ok := c.PaletteByIndex(i)
		require.True(t, ok)

		assert.Equal(t, first, second)
		assert.Equal(t, first, GeneratePaletteByIndex(i))
	}
}

func TestGeneratePaletteByIndex_Shape(t *testing.T) {
	for i := 0; i < CatalogSize; i += 7 {
		assertShape(t, GeneratePaletteByIndex(i))
	}
}

func TestGeneratePaletteByIndex_IDIsOneBased(t *testing.T) {
	assert.Equal(t, "1", GeneratePaletteByIndex(0).ID)
	assert.Equal(t, "50000", GeneratePaletteByIndex(49999).ID)
}

func TestFreeBoundary(t *testing.T) {
	c := NewCatalog()

	p, ok := c.PaletteByIndex(1999)
	require.True(t, ok)
	assert.True(t, p.IsFree)

	p, ok = c.PaletteByIndex(2000)
	require.True(t, ok)
	assert.False(t, p.IsFree)

	assert.True(t, IsFreeIndex(0))
	assert.False(t, IsFreeIndex(-1))
}

func TestPaletteByIndex_OutOfRange(t *testing.T) {
	c := NewCatalog()
	_, ok := c.PaletteByIndex(-1)
	assert.False(t, ok)
	_, ok = c.PaletteByIndex(CatalogSize)
	assert.False(t, ok)
	assert.Zero(t, c.CacheSize())
}

func TestPaletteByIndex_ReturnsCopy(t *testing.T) {
	c := NewCatalog()
	p, _ := c.PaletteByIndex(3)
	p.Colors[0] = "mutated"
	p.Tags[0] = "mutated"

	again, _ := c.PaletteByIndex(3)
	assert.NotEqual(t, "mutated", again.Colors[0])
	assert.NotEqual(t, "mutated", again.Tags[0])
}

func TestPalettesInRange(t *testing.T) {
	c := NewCatalog()

	got := c.PalettesInRange(49990, 50010)
	require.Len(t, got, 10)
	for i, p := range got {
		assert.Equal(t, 49990+i, p.Index)
	}
	assert.Equal(t, 10, c.CacheSize())

	assert.Empty(t, c.PalettesInRange(10, 10))
	assert.Empty(t, c.PalettesInRange(20, 10))
	assert.Len(t, c.PalettesInRange(-5, 3), 3)
}

func TestPalettesByPlan_Totals(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		plan  string
		total int
	}{
		{"free", 2000},
		{"pro", 10000},
		{"ultra", 25000},
		{"individual", 50000},
		{"platinum", 2000},
		{"", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			page := c.PalettesByPlan(tt.plan, 0, 50)
			assert.Equal(t, tt.total, page.Total)
			assert.Len(t, page.Palettes, 50)
			assert.True(t, page.HasMore)
		})
	}
}

func TestPalettesByPlan_Exhaustion(t *testing.T) {
	c := NewCatalog()

	for _, pageSize := range []int{50, 64, 300} {
		returned := 0
		for page := 0; ; page++ {
			res := c.PalettesByPlan("free", page, pageSize)
			returned += len(res.Palettes)
			if !res.HasMore {
				break
			}
			require.Less(t, returned, plan.Free.Ceiling(), "hasMore must drop at the ceiling")
		}
		assert.Equal(t, plan.Free.Ceiling(), returned, "page size %d", pageSize)
	}

	past := c.PalettesByPlan("free", 1000, 50)
	assert.Empty(t, past.Palettes)
	assert.False(t, past.HasMore)
	assert.NotNil(t, past.Palettes)
}

func TestPalettesByPlan_DefaultsBadInput(t *testing.T) {
	c := NewCatalog()
	page := c.PalettesByPlan("pro", -3, 0)
	assert.Len(t, page.Palettes, DefaultPageSize)
	assert.Equal(t, 0, page.Palettes[0].Index)
}

func TestFreePalettes(t *testing.T) {
	c := NewCatalog()
	page := c.FreePalettes(39, 50)
	require.Len(t, page.Palettes, 50)
	assert.False(t, page.HasMore)
	for _, p := range page.Palettes {
		assert.True(t, p.IsFree)
	}
}

func TestSearch_FindsNameSubstring(t *testing.T) {
	c := NewCatalog()

	for _, k := range []int{0, 17, 1500} {
		target := GeneratePaletteByIndex(k)
		words := strings.Fields(target.Name)
		query := strings.ToUpper(words[len(words)-1][:3])

		found := false
		for _, p := range c.Search(query, "free") {
			if p.Index == k {
				found = true
				break
			}
		}
		assert.True(t, found, "query %q should find palette %d (%s)", query, k, target.Name)
	}
}

func TestSearch_ExactTag(t *testing.T) {
	c := NewCatalog()
	target := GeneratePaletteByIndex(5)
	tag := target.Tags[0]

	results := c.Search(tag, "free")
	require.NotEmpty(t, results)
	for _, p := range results {
		matched := strings.Contains(strings.ToLower(p.Name), tag)
		for _, pt := range p.Tags {
			matched = matched || pt == tag
		}
		assert.True(t, matched)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	c := NewCatalog()
	assert.Empty(t, c.Search("coral42", "individual"))
	assert.Empty(t, c.SearchAll("1999"))
	assert.Empty(t, c.SearchAll("   "))
}

func TestSearch_RespectsPlanCeiling(t *testing.T) {
	c := NewCatalog()
	for _, p := range c.Search("ocean", "free") {
		assert.Less(t, p.Index, plan.Free.Ceiling())
	}
}

func TestScan_StopsEarly(t *testing.T) {
	c := NewCatalog()
	n := 0
	for range c.Scan("a", CatalogSize, ScopeAll) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
	assert.Less(t, c.CacheSize(), 1000)
}

func TestRandomPalette(t *testing.T) {
	c := NewCatalog(WithRand(rand.New(rand.NewPCG(1, 2))))
	colors := c.RandomPalette()
	require.Len(t, colors, 5)

	found := false
	for i := 0; i < FreeThreshold; i++ {
		p, _ := c.PaletteByIndex(i)
		if assert.ObjectsAreEqual(p.Colors, colors) {
			found = true
			break
		}
	}
	assert.True(t, found, "random palette must come from the free range")
}

func TestRandomColors_IgnoresCount(t *testing.T) {
	c := NewCatalog()
	for _, count := range []int{0, 3, 5, 12} {
		colors := c.RandomColors(count)
		require.Len(t, colors, 5)
		for _, col := range colors {
			assert.Regexp(t, hexRe, col)
		}
	}
}

func TestWarm(t *testing.T) {
	c := NewCatalog()
	c.Warm(100)
	assert.Equal(t, 100, c.CacheSize())
	c.Reset()
	assert.Zero(t, c.CacheSize())
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				p, ok := c.PaletteByIndex(i)
				if !ok || p.Index != i {
					t.Errorf("unexpected palette for %d", i)
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 500, c.CacheSize())
}

func TestCatalogSizeMatchesLargestPlan(t *testing.T) {
	assert.Equal(t, CatalogSize, plan.Individual.Ceiling())
	assert.Equal(t, FreeThreshold, plan.Free.Ceiling())
}
