package generator

var (
	Syllables = []string{
		"BAR", "OUGHT", "ABLE", "PRI", "PRES",
		"ESE", "ANTI", "CALLY", "ATION", "EING",
	}
)

// LastName builds the customer last name for a seed in [0, 999] from the
// hundreds, tens and units digits of the seed.
func LastName(seed int64) string {
	return Syllables[(seed/100)%10] + Syllables[(seed/10)%10] + Syllables[seed%10]
}

// LastNameGenerator generates customer last names from NURand(255, 0, 999)
// seeds.
type LastNameGenerator struct {
	random *Random
	last   string
}

func NewLastNameGenerator(random *Random) *LastNameGenerator {
	return &LastNameGenerator{
		random: random,
	}
}

func (self *LastNameGenerator) NextString() string {
	self.last = LastName(NonUniform(self.random, ALast, 0, 999))
	return self.last
}

func (self *LastNameGenerator) LastString() string {
	return self.last
}
