package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_Deterministic(t *testing.T) {
	a := NewRandom(Seed(42))
	b := NewRandom(Seed(42))
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

func TestRandom_FirstValue(t *testing.T) {
	// (1*1103515245 + 12345) & 0x7fffffff = 1103527590
	r := NewRandom(1)
	assert.InDelta(t, 1103527590.0/2147483648.0, r.Next(), 1e-12)
}

func TestRandom_Range(t *testing.T) {
	for _, seed := range []int64{0, 1, -1, 67890, 1 << 40, -(1 << 40)} {
		r := NewRandom(seed)
		for i := 0; i < 1000; i++ {
			v := r.Next()
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
	}
}

func TestRandom_Intn(t *testing.T) {
	r := NewRandom(7)
	for i := 0; i < 1000; i++ {
		v := r.Intn(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestShuffle_IsPermutation(t *testing.T) {
	items := []float64{350, 15, 35, 50, 280}
	Shuffle(NewRandom(99), items)
	assert.ElementsMatch(t, []float64{350, 15, 35, 50, 280}, items)
}
