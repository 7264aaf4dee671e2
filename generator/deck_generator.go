package generator

// DeckGenerator deals labels from a fixed deck. Each label appears in the deck
// as many times as its weight. When the deck is exhausted it is reshuffled in
// place with a Fisher-Yates pass and dealt again from the start, so every full
// cycle contains exactly the configured mix.
type DeckGenerator struct {
	random *Random
	deck   []string
	index  int
	last   string
}

func NewDeckGenerator(random *Random, labels []string, weights []int) *DeckGenerator {
	deck := make([]string, 0)
	for i, label := range labels {
		for j := 0; j < weights[i]; j++ {
			deck = append(deck, label)
		}
	}
	return &DeckGenerator{
		random: random,
		deck:   deck,
		// start exhausted so the first draw shuffles
		index: len(deck),
	}
}

func (self *DeckGenerator) shuffle() {
	for i := len(self.deck) - 1; i > 0; i-- {
		j := int(self.random.Uniform(0, int64(i)))
		self.deck[i], self.deck[j] = self.deck[j], self.deck[i]
	}
	self.index = 0
}

func (self *DeckGenerator) NextString() string {
	if self.index >= len(self.deck) {
		self.shuffle()
	}
	self.last = self.deck[self.index]
	self.index++
	return self.last
}

func (self *DeckGenerator) LastString() string {
	return self.last
}

// Size returns the number of cards in one cycle.
func (self *DeckGenerator) Size() int {
	return len(self.deck)
}
