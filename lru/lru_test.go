package lru

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/store"
)

func TestNewRejectsZeroSize(t *testing.T) {
	_, err := New(0)
	require.ErrorIs(t, err, store.ErrInvalidParams)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	require := require.New(t)
	s, err := New(3)
	require.NoError(err)

	s.Insert(1)
	s.Insert(2)
	s.Insert(3)
	s.Insert(4) // evicts 1

	require.False(s.Contains(store.Addr(1)))
	require.True(s.Contains(store.Addr(2)))
	require.True(s.Contains(store.Addr(3)))
	require.True(s.Contains(store.Addr(4)))
	require.Equal(3, s.Len())
}

func TestContainsCountsAsUse(t *testing.T) {
	require := require.New(t)
	s, err := New(3)
	require.NoError(err)

	s.Insert(1)
	s.Insert(2)
	s.Insert(3)
	require.True(s.Contains(store.Addr(1))) // promotes 1 to MRU
	s.Insert(4)                             // evicts 2, the new LRU

	require.True(s.Contains(store.Addr(1)))
	require.False(s.Contains(store.Addr(2)))
	require.True(s.Contains(store.Addr(3)))
	require.True(s.Contains(store.Addr(4)))
}

func TestClearEmptiesSet(t *testing.T) {
	require := require.New(t)
	s, err := New(2)
	require.NoError(err)
	s.Insert(1)
	s.Insert(2)
	s.Clear()
	require.Equal(0, s.Len())
	require.False(s.Contains(store.Addr(1)))
}

func TestInsertExistingPromotesWithoutGrowing(t *testing.T) {
	require := require.New(t)
	s, err := New(2)
	require.NoError(err)
	s.Insert(1)
	s.Insert(2)
	s.Insert(1) // promote, not grow
	require.Equal(2, s.Len())
	s.Insert(3) // evicts 2, since 1 was just promoted
	require.True(s.Contains(store.Addr(1)))
	require.False(s.Contains(store.Addr(2)))
	require.True(s.Contains(store.Addr(3)))
}
