package tpcc

import (
	"sync"
	"testing"

	"github.com/hhkbp2/testify/require"
)

func TestSharedData(t *testing.T) {
	s := NewSharedData()
	_, ok := s.Get("k")
	require.False(t, ok)
	s.Put("k", 1)
	v, ok := s.Get("k")
	require.True(t, ok)
	require.Equal(t, 1, v)
	s.Delete("k")
	_, ok = s.Get("k")
	require.False(t, ok)
}

func TestRunMetadataCell(t *testing.T) {
	s := NewSharedData()
	cell := &RunMetadataCell{}
	meta := RunMetadata{
		ScaleFactor: 4,
		Product:     Product{Name: ProductPostgreSQL, Major: 14, Minor: 2},
	}
	PublishRunMetadata(s, meta)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cell.Get(s)
			require.Nil(t, err)
			require.Equal(t, meta, got)
		}()
	}
	wg.Wait()
	// published once, never refreshed
	PublishRunMetadata(s, RunMetadata{ScaleFactor: 9})
	got, err := cell.Get(s)
	require.Nil(t, err)
	require.Equal(t, int64(4), got.ScaleFactor)
}

func TestRunMetadataCellUnpublished(t *testing.T) {
	cell := &RunMetadataCell{}
	_, err := cell.Get(NewSharedData())
	require.NotNil(t, err)
}

func TestProductAtLeast(t *testing.T) {
	p := Product{Name: ProductPostgreSQL, Major: 9, Minor: 3}
	require.True(t, p.AtLeast(9, 3))
	require.True(t, p.AtLeast(9, 2))
	require.True(t, p.AtLeast(8, 4))
	require.False(t, p.AtLeast(9, 4))
	require.False(t, p.AtLeast(10, 0))
	require.Equal(t, "PostgreSQL 9.3", p.String())
}
