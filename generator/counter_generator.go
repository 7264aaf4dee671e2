package generator

import (
	"math"
	"strconv"
	"sync/atomic"
)

// CounterGenerator hands out consecutive integers, it is safe for
// concurrent use. LastInt is the last value handed out to any caller.
type CounterGenerator struct {
	count int64
	limit int64
}

func NewCounterGenerator(start int64) *CounterGenerator {
	return NewBoundedCounterGenerator(start, math.MaxInt64)
}

// NewBoundedCounterGenerator returns a counter whose Take reports false
// once values go past limit.
func NewBoundedCounterGenerator(start, limit int64) *CounterGenerator {
	return &CounterGenerator{
		count: start - 1,
		limit: limit,
	}
}

func (self *CounterGenerator) NextInt() int64 {
	return atomic.AddInt64(&self.count, 1)
}

func (self *CounterGenerator) LastInt() int64 {
	return atomic.LoadInt64(&self.count)
}

func (self *CounterGenerator) NextString() string {
	return strconv.FormatInt(self.NextInt(), 10)
}

func (self *CounterGenerator) LastString() string {
	return strconv.FormatInt(self.LastInt(), 10)
}

// Take returns the next value and whether it is within the limit.
func (self *CounterGenerator) Take() (int64, bool) {
	v := self.NextInt()
	return v, v <= self.limit
}
