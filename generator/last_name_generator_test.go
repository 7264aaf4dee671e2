package generator

import (
	"github.com/hhkbp2/testify/require"
	"testing"
)

func TestLastName(t *testing.T) {
	require.Equal(t, "BARBARBAR", LastName(0))
	require.Equal(t, "OUGHTABLEPRI", LastName(123))
	require.Equal(t, "EINGEINGEING", LastName(999))
	require.Equal(t, "PRESCALLYESE", LastName(475))
	require.Equal(t, LastName(371), LastName(371))
}

func TestLastNameOnto(t *testing.T) {
	names := make(map[string]bool)
	for seed := int64(0); seed < 1000; seed++ {
		names[LastName(seed)] = true
	}
	require.Equal(t, 1000, len(names))
}

func TestLastNameGenerator(t *testing.T) {
	names := make(map[string]bool)
	for seed := int64(0); seed < 1000; seed++ {
		names[LastName(seed)] = true
	}
	g := NewLastNameGenerator(NewRandom(11))
	for i := 0; i < 1000; i++ {
		name := g.NextString()
		require.True(t, names[name])
		require.Equal(t, name, g.LastString())
	}
}
