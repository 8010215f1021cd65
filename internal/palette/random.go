package palette

// Random is a deterministic 31-bit linear congruential generator. The same
// seed always yields the same sequence.
type Random struct {
	state int64
}

// NewRandom returns a generator seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{state: seed}
}

// Next advances the state and returns a value in [0,1).
func (r *Random) Next() float64 {
	r.state = (r.state*1103515245 + 12345) & 0x7fffffff
	return float64(r.state) / 0x80000000
}

// Intn returns a value in [0,n). It returns 0 when n <= 0.
func (r *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() * float64(n))
}

// Between returns a value in [lo,hi).
func (r *Random) Between(lo, hi float64) float64 {
	return lo + r.Next()*(hi-lo)
}

// Jitter returns a value in [-amount/2, amount/2).
func (r *Random) Jitter(amount float64) float64 {
	return (r.Next() - 0.5) * amount
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](r *Random, items []T) T {
	return items[r.Intn(len(items))]
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](r *Random, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
