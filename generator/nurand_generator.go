package generator

// Run-time constants of the non-uniform random function. The same values are
// used by the loader, so load and run share one C per A.
const (
	CLast = 100 // A = 255, customer last names
	CId   = 100 // A = 1023, customer ids
	CItem = 100 // A = 8191, item ids

	ALast = 255
	AId   = 1023
	AItem = 8191
)

// NonUniformConstant returns the additive constant C for the given A.
func NonUniformConstant(a int64) int64 {
	switch a {
	case ALast:
		return CLast
	case AId:
		return CId
	case AItem:
		return CItem
	default:
		return 0
	}
}

// NonUniform implements NURand(A, x, y):
//   (((random(0, A) | random(x, y)) + C) % (y - x + 1)) + x
func NonUniform(random *Random, a, x, y int64) int64 {
	c := NonUniformConstant(a)
	return (((random.Uniform(0, a) | random.Uniform(x, y)) + c) % (y - x + 1)) + x
}

// NonUniformIntegerGenerator generates integers in [lowerBound, upperBound]
// following the NURand distribution.
type NonUniformIntegerGenerator struct {
	*IntegerGeneratorBase
	random     *Random
	a          int64
	lowerBound int64
	upperBound int64
}

func NewNonUniformIntegerGenerator(random *Random, a, lowerBound, upperBound int64) *NonUniformIntegerGenerator {
	return &NonUniformIntegerGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(lowerBound - 1),
		random:               random,
		a:                    a,
		lowerBound:           lowerBound,
		upperBound:           upperBound,
	}
}

func (self *NonUniformIntegerGenerator) NextInt() int64 {
	ret := NonUniform(self.random, self.a, self.lowerBound, self.upperBound)
	self.SetLastInt(ret)
	return ret
}

func (self *NonUniformIntegerGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}
