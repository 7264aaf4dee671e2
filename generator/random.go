package generator

import (
	"math/rand"
	"sync"
	"time"
)

var (
	seedLock   sync.Mutex
	seedSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NextSeed returns a fresh seed for a Random. It is safe for concurrent use.
func NextSeed() int64 {
	seedLock.Lock()
	defer seedLock.Unlock()
	return seedSource.Int63()
}

// Random is the uniform random source every generator draws from.
// It is not safe for concurrent use, each agent owns its own instance.
type Random struct {
	r *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{
		r: rand.New(rand.NewSource(seed)),
	}
}

// Uniform returns a uniformly distributed integer in [low, high].
func (self *Random) Uniform(low, high int64) int64 {
	if high <= low {
		return low
	}
	return low + self.r.Int63n(high-low+1)
}

// Float64 returns a uniformly distributed float in [0.0, 1.0).
func (self *Random) Float64() float64 {
	return self.r.Float64()
}

// Perm returns a random permutation of [0, n).
func (self *Random) Perm(n int) []int {
	return self.r.Perm(n)
}
