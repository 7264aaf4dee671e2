package generator

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	numeric      = "0123456789"
)

func (self *Random) pick(charset string, minLength, maxLength int64) string {
	n := self.Uniform(minLength, maxLength)
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[self.Uniform(0, int64(len(charset)-1))]
	}
	return string(b)
}

// AString returns a random alphanumeric string whose length is uniform in
// [minLength, maxLength].
func (self *Random) AString(minLength, maxLength int64) string {
	return self.pick(alphanumeric, minLength, maxLength)
}

// NString returns a random numeric string whose length is uniform in
// [minLength, maxLength].
func (self *Random) NString(minLength, maxLength int64) string {
	return self.pick(numeric, minLength, maxLength)
}

// Zip returns a zip code made of 4 random digits followed by "11111".
func (self *Random) Zip() string {
	return self.NString(4, 4) + "11111"
}

// Original returns a random data string of [minLength, maxLength] characters,
// marked "ORIGINAL" at a random position in 10% of the cases.
func (self *Random) Original(minLength, maxLength int64) string {
	s := self.AString(minLength, maxLength)
	if self.Uniform(1, 100) > 10 {
		return s
	}
	const mark = "ORIGINAL"
	if int64(len(s)) < int64(len(mark)) {
		return mark
	}
	pos := self.Uniform(0, int64(len(s)-len(mark)))
	return s[:pos] + mark + s[pos+int64(len(mark)):]
}
