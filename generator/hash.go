package generator

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a non-negative xxhash of the decimal concatenation of
// values, the way history ids are derived from (w, d, c, salt).
func Hash(values ...int64) int64 {
	var buf []byte
	for _, v := range values {
		buf = strconv.AppendInt(buf, v, 10)
	}
	return int64(xxhash.Sum64(buf) &^ (1 << 63))
}
