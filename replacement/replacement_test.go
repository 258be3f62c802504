package replacement

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/store"
)

func addrs(vs ...uint64) []store.Addr {
	out := make([]store.Addr, len(vs))
	for i, v := range vs {
		out[i] = store.Addr(v)
	}
	return out
}

func TestIntersectWithEmptyReturnsOtherOperand(t *testing.T) {
	require := require.New(t)

	x, y := store.Addr(1), store.Addr(2)
	a := Table{x: nil, y: nil} // keys present, zero columns
	b := Table{x: addrs(10, 11), y: addrs(20, 21)}

	require.Equal(b, Intersect(a, b))
	require.Equal(a0copy(b), Intersect(b, a))
}

func a0copy(t Table) Table { return Copy(t) }

func TestSubtractConcreteScenario(t *testing.T) {
	require := require.New(t)

	x, y := store.Addr(100), store.Addr(200)
	n1, n2, n3 := store.Addr(1), store.Addr(2), store.Addr(3)

	a := Table{
		x: addrs(uint64(n1), uint64(n1)),
		y: addrs(uint64(n2), uint64(n3)),
	}
	b := Table{
		x: addrs(uint64(n1)),
		y: addrs(uint64(n2)),
	}

	got := Subtract(a, b)
	require.Equal(1, Columns(got))
	require.Equal(n1, got[x][0])
	require.Equal(n3, got[y][0])
}

func TestSubtractNoColumnAgreesWithB(t *testing.T) {
	x, y := store.Addr(1), store.Addr(2)
	a := Table{
		x: addrs(1, 1, 5),
		y: addrs(2, 3, 9),
	}
	b := Table{
		x: addrs(1),
		y: addrs(2),
	}
	got := Subtract(a, b)
	common := []store.Addr{x, y}
	for col := 0; col < Columns(got); col++ {
		for bcol := 0; bcol < Columns(b); bcol++ {
			disagrees := false
			for _, k := range common {
				if got[k][col] != b[k][bcol] {
					disagrees = true
				}
			}
			if !disagrees {
				t.Fatalf("result column %d agrees with b column %d", col, bcol)
			}
		}
	}
}

func TestIntersectCommutesUpToColumnPermutation(t *testing.T) {
	require := require.New(t)

	x, y := store.Addr(1), store.Addr(2)
	a := Table{x: addrs(1, 2, 3), y: addrs(10, 20, 30)}
	b := Table{x: addrs(2, 3, 4), y: addrs(20, 30, 40)}

	ab := Intersect(a, b)
	ba := Intersect(b, a)

	require.Equal(asColumnSet(ab), asColumnSet(ba))
}

func TestIntersectAssociative(t *testing.T) {
	require := require.New(t)
	x, y, z := store.Addr(1), store.Addr(2), store.Addr(3)

	a := Table{x: addrs(1, 2), y: addrs(10, 20)}
	b := Table{y: addrs(10, 20, 30), z: addrs(100, 200, 300)}
	c := Table{x: addrs(1, 1), z: addrs(100, 999)}

	left := Intersect(a, Intersect(b, c))
	right := Intersect(Intersect(a, b), c)

	require.Equal(asColumnSet(left), asColumnSet(right))
}

func TestNoDuplicateColumnsAfterOperations(t *testing.T) {
	require := require.New(t)
	x := store.Addr(1)
	a := Table{x: addrs(1, 1, 2)}
	b := Table{x: addrs(1, 2, 2)}

	for _, got := range []Table{Intersect(a, b), Unite(a, b), Subtract(a, b)} {
		seen := map[store.Addr]struct{}{}
		for _, v := range got[x] {
			if _, dup := seen[v]; dup {
				t.Fatalf("duplicate column value %v in %v", v, got)
			}
			seen[v] = struct{}{}
		}
	}
	require.True(true)
}

func TestToBindingsRoundTrip(t *testing.T) {
	require := require.New(t)
	x, y := store.Addr(1), store.Addr(2)
	tbl := Table{x: addrs(1, 2), y: addrs(10, 20)}

	bindings := ToBindings(tbl)
	require.Len(bindings, 2)

	rebuilt := FromBindings(bindings)
	require.Equal(Columns(tbl), Columns(rebuilt))
	require.Equal(asColumnSet(tbl), asColumnSet(rebuilt))
}

func TestRemoveRows(t *testing.T) {
	require := require.New(t)
	x, y := store.Addr(1), store.Addr(2)
	tbl := Table{x: addrs(1, 2), y: addrs(10, 20)}

	got := RemoveRows(tbl, map[store.Addr]struct{}{y: {}})
	_, hasY := got[y]
	require.False(hasY)
	require.Equal(tbl[x], got[x])
}

// asColumnSet turns a table into an order-independent set representation for
// comparing up to column permutation.
func asColumnSet(t Table) map[string]struct{} {
	keys := keySlice(t)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	set := make(map[string]struct{})
	for col := 0; col < Columns(t); col++ {
		set[columnSignature(t, keys, col)] = struct{}{}
	}
	return set
}
