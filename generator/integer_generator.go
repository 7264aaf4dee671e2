package generator

import (
	"strconv"
)

// IntegerGenerator is a generator of integers, the strings it generates are
// their decimal forms.
type IntegerGenerator interface {
	Generator
	// NextInt returns the next value. Implementations call SetLastInt
	// so that LastInt and LastString follow.
	NextInt() int64
	LastInt() int64
}

// IntegerGeneratorBase keeps the last value of an IntegerGenerator.
type IntegerGeneratorBase struct {
	lastInt int64
}

func NewIntegerGeneratorBase(last int64) *IntegerGeneratorBase {
	return &IntegerGeneratorBase{
		lastInt: last,
	}
}

func (self *IntegerGeneratorBase) SetLastInt(value int64) {
	self.lastInt = value
}

// NextString draws from g and formats the value.
func (self *IntegerGeneratorBase) NextString(g IntegerGenerator) string {
	return strconv.FormatInt(g.NextInt(), 10)
}

func (self *IntegerGeneratorBase) LastInt() int64 {
	return self.lastInt
}

func (self *IntegerGeneratorBase) LastString() string {
	return strconv.FormatInt(self.lastInt, 10)
}

// ConstantIntegerGenerator always returns the same value.
type ConstantIntegerGenerator struct {
	*IntegerGeneratorBase
	value int64
}

func NewConstantIntegerGenerator(value int64) *ConstantIntegerGenerator {
	return &ConstantIntegerGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(value),
		value:                value,
	}
}

func (self *ConstantIntegerGenerator) NextInt() int64 {
	return self.value
}

func (self *ConstantIntegerGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}

// UniformIntegerGenerator generates integers uniformly distributed over
// [lowerBound, upperBound] inclusive.
type UniformIntegerGenerator struct {
	*IntegerGeneratorBase
	random     *Random
	lowerBound int64
	upperBound int64
}

func NewUniformIntegerGenerator(random *Random, lowerBound, upperBound int64) *UniformIntegerGenerator {
	return &UniformIntegerGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(lowerBound - 1),
		random:               random,
		lowerBound:           lowerBound,
		upperBound:           upperBound,
	}
}

func (self *UniformIntegerGenerator) NextInt() int64 {
	ret := self.random.Uniform(self.lowerBound, self.upperBound)
	self.SetLastInt(ret)
	return ret
}

func (self *UniformIntegerGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}
