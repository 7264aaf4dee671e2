package generator

type Pair struct {
	Weight float64
	Value  string
}

// DiscreteGenerator picks one of a set of values, each with a probability
// proportional to its weight.
type DiscreteGenerator struct {
	random    *Random
	values    []*Pair
	sum       float64
	lastValue string
}

func NewDiscreteGenerator(random *Random) *DiscreteGenerator {
	return &DiscreteGenerator{
		random: random,
		values: make([]*Pair, 0),
	}
}

func (self *DiscreteGenerator) NextString() string {
	value := self.random.Float64() * self.sum
	for _, p := range self.values {
		if value < p.Weight {
			self.lastValue = p.Value
			return self.lastValue
		}
		value -= p.Weight
	}
	// rounding left value at the very end of the range
	self.lastValue = self.values[len(self.values)-1].Value
	return self.lastValue
}

func (self *DiscreteGenerator) LastString() string {
	return self.lastValue
}

func (self *DiscreteGenerator) AddValue(weight float64, value string) {
	self.values = append(self.values, &Pair{
		Weight: weight,
		Value:  value,
	})
	self.sum += weight
}
