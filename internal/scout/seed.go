package scout

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
)

// SeedKey is the composite key the synthetic generator is seeded from.
func SeedKey(industry, location string, page int) string {
	return industry + location + strconv.Itoa(page)
}

// seededRand is a deterministic generator keyed by a string. The same key
// always yields the same sequence of draws.
type seededRand struct {
	r *rand.Rand
}

func newSeededRand(key string) *seededRand {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()
	return &seededRand{r: rand.New(rand.NewPCG(sum, sum^0x9e3779b97f4a7c15))}
}

func (s *seededRand) Float64() float64 {
	return s.r.Float64()
}

// Between returns a uniform integer in [lo, hi].
func (s *seededRand) Between(lo, hi int) int {
	return lo + s.r.IntN(hi-lo+1)
}

// Uniform returns a uniform float in [lo, hi).
func (s *seededRand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

func (s *seededRand) Choice(items []string) string {
	return items[s.r.IntN(len(items))]
}

// OneIn reports true with probability 1/n.
func (s *seededRand) OneIn(n int) bool {
	return s.r.IntN(n) == 0
}
