// Package replacement implements the column-major relational algebra over
// variable-to-value substitution tables (the "Replacements" data model):
// intersect, subtract, unite, and duplicate-column elimination, plus
// conversion to concrete parameter bindings.
//
// A Table maps a variable element to an ordered vector of concrete
// elements. Every value-vector in a given Table has the same length, the
// table's column count; column index k denotes one tuple, so the value of
// variable v in tuple k is Table[v][k]. An empty Table (no keys at all)
// represents one unconstrained row when combined with another table; a
// Table with keys but zero columns represents the empty relation.
package replacement

import "github.com/kilativ-dotcom/scl-machine/store"

// Table is a column-major relation mapping variables to value vectors. All
// operations in this package treat Table as a value object: inputs are
// never mutated.
type Table map[store.Addr][]store.Addr

// Binding is a single concrete variable-to-value substitution, i.e. one
// column of a Table materialized as a map.
type Binding map[store.Addr]store.Addr

// Columns returns the common column count of all key-vectors, or 0 if the
// table has no keys.
func Columns(t Table) int {
	for _, values := range t {
		return len(values)
	}
	return 0
}

// Keys returns the set of variables in t.
func Keys(t Table) map[store.Addr]struct{} {
	keys := make(map[store.Addr]struct{}, len(t))
	for k := range t {
		keys[k] = struct{}{}
	}
	return keys
}

func keySlice(t Table) []store.Addr {
	keys := make([]store.Addr, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	return keys
}

func commonKeys(a, b Table) []store.Addr {
	var common []store.Addr
	for k := range a {
		if _, ok := b[k]; ok {
			common = append(common, k)
		}
	}
	return common
}

// Copy returns a deep copy of t.
func Copy(t Table) Table {
	result := make(Table, len(t))
	for k, v := range t {
		cp := make([]store.Addr, len(v))
		copy(cp, v)
		result[k] = cp
	}
	return result
}

// fingerprint is a cheap, order-independent hash of a column's values across
// a fixed key set. It is a filter only: candidate columns with matching
// fingerprints must still be checked value-by-value.
var primes = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

func fingerprint(t Table, keys []store.Addr, col int) uint64 {
	if len(keys) == 0 {
		return 0
	}
	var sum uint64
	for i, k := range keys {
		sum += uint64(t[k][col]) * primes[i%len(primes)]
	}
	return sum / uint64(len(keys))
}

// hashesOn buckets the columns of t by their fingerprint over keys, so that
// intersect/subtract can iterate matching buckets instead of the full
// cross-product.
func hashesOn(t Table, keys []store.Addr) map[uint64][]int {
	n := Columns(t)
	buckets := make(map[uint64][]int, n)
	for col := 0; col < n; col++ {
		h := fingerprint(t, keys, col)
		buckets[h] = append(buckets[h], col)
	}
	return buckets
}

func columnsAgree(a Table, aCol int, b Table, bCol int, common []store.Addr) bool {
	for _, k := range common {
		if a[k][aCol] != b[k][bCol] {
			return false
		}
	}
	return true
}

// Intersect computes the relational natural join of a and b on their common
// keys. For every pair of columns that agree on all common keys, it emits
// one output column carrying a's values on all of a's keys and b's values
// on b's keys not already present in a. Degenerate cases: a zero-column
// table joins to a copy of the other operand. The result has duplicate
// columns removed.
func Intersect(a, b Table) Table {
	aCols, bCols := Columns(a), Columns(b)
	if aCols == 0 {
		return Copy(b)
	}
	if bCols == 0 {
		return Copy(a)
	}

	common := commonKeys(a, b)
	aKeys := keySlice(a)
	bOnlyKeys := keySlice(b)
	{
		// bOnlyKeys excludes keys already present in a.
		filtered := bOnlyKeys[:0:0]
		for _, k := range bOnlyKeys {
			if _, ok := a[k]; !ok {
				filtered = append(filtered, k)
			}
		}
		bOnlyKeys = filtered
	}

	result := make(Table)
	for _, k := range aKeys {
		result[k] = nil
	}
	for _, k := range bOnlyKeys {
		result[k] = nil
	}

	bBuckets := hashesOn(b, common)
	for ai := 0; ai < aCols; ai++ {
		h := fingerprint(a, common, ai)
		for _, bi := range bBuckets[h] {
			if !columnsAgree(a, ai, b, bi, common) {
				continue
			}
			for _, k := range aKeys {
				result[k] = append(result[k], a[k][ai])
			}
			for _, k := range bOnlyKeys {
				result[k] = append(result[k], b[k][bi])
			}
		}
	}
	return DeduplicateColumns(result)
}

// Subtract computes the antijoin: all columns of a for which no column of b
// agrees on every common key. If a or b has zero columns, or they share no
// keys, the result is a copy of a. Otherwise the result has duplicate
// columns removed.
func Subtract(a, b Table) Table {
	aCols, bCols := Columns(a), Columns(b)
	if aCols == 0 || bCols == 0 {
		return Copy(a)
	}
	common := commonKeys(a, b)
	if len(common) == 0 {
		return Copy(a)
	}

	bBuckets := hashesOn(b, common)
	result := make(Table, len(a))
	aKeys := keySlice(a)
	for _, k := range aKeys {
		result[k] = nil
	}

	for ai := 0; ai < aCols; ai++ {
		h := fingerprint(a, common, ai)
		matched := false
		for _, bi := range bBuckets[h] {
			if columnsAgree(a, ai, b, bi, common) {
				matched = true
				break
			}
		}
		if !matched {
			for _, k := range aKeys {
				result[k] = append(result[k], a[k][ai])
			}
		}
	}
	return DeduplicateColumns(result)
}

// Unite concatenates columns with cross-product semantics on non-common
// keys: every column of a is paired with every column of b. Duplicate
// columns are removed from the result.
func Unite(a, b Table) Table {
	aCols, bCols := Columns(a), Columns(b)
	if aCols == 0 {
		return Copy(b)
	}
	if bCols == 0 {
		return Copy(a)
	}

	aKeys := keySlice(a)
	bKeys := keySlice(b)
	{
		// Non-common semantics: a key already bound by a keeps a's value;
		// only b's keys absent from a are concatenated.
		filtered := bKeys[:0:0]
		for _, k := range bKeys {
			if _, ok := a[k]; !ok {
				filtered = append(filtered, k)
			}
		}
		bKeys = filtered
	}
	result := make(Table)
	for _, k := range aKeys {
		result[k] = nil
	}
	for _, k := range bKeys {
		result[k] = nil
	}

	for ai := 0; ai < aCols; ai++ {
		for bi := 0; bi < bCols; bi++ {
			for _, k := range aKeys {
				result[k] = append(result[k], a[k][ai])
			}
			for _, k := range bKeys {
				result[k] = append(result[k], b[k][bi])
			}
		}
	}
	return DeduplicateColumns(result)
}

// RemoveRows drops the named keys entirely (not individual columns),
// returning a new table.
func RemoveRows(t Table, drop map[store.Addr]struct{}) Table {
	result := make(Table, len(t))
	for k, v := range t {
		if _, gone := drop[k]; gone {
			continue
		}
		cp := make([]store.Addr, len(v))
		copy(cp, v)
		result[k] = cp
	}
	return result
}

// ToBindings produces one Binding per column of t.
func ToBindings(t Table) []Binding {
	n := Columns(t)
	if len(t) == 0 || n == 0 {
		return nil
	}
	keys := keySlice(t)
	bindings := make([]Binding, n)
	for col := 0; col < n; col++ {
		b := make(Binding, len(keys))
		for _, k := range keys {
			b[k] = t[k][col]
		}
		bindings[col] = b
	}
	return bindings
}

// FromBindings builds a Table from a list of Bindings, one column per
// binding. All bindings must share the same key set; missing keys are
// treated as store.Invalid.
func FromBindings(bindings []Binding) Table {
	if len(bindings) == 0 {
		return Table{}
	}
	keySet := make(map[store.Addr]struct{})
	for _, b := range bindings {
		for k := range b {
			keySet[k] = struct{}{}
		}
	}
	result := make(Table, len(keySet))
	for k := range keySet {
		col := make([]store.Addr, len(bindings))
		for i, b := range bindings {
			col[i] = b[k]
		}
		result[k] = col
	}
	return result
}

// DeduplicateColumns removes columns that are identical across every key,
// preserving the first occurrence's order.
func DeduplicateColumns(t Table) Table {
	n := Columns(t)
	if n == 0 {
		return Copy(t)
	}
	keys := keySlice(t)
	seen := make(map[string]struct{}, n)
	result := make(Table, len(t))
	for _, k := range keys {
		result[k] = nil
	}
	for col := 0; col < n; col++ {
		sig := columnSignature(t, keys, col)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		for _, k := range keys {
			result[k] = append(result[k], t[k][col])
		}
	}
	return result
}

func columnSignature(t Table, keys []store.Addr, col int) string {
	// Keys are addresses (uint64); a fixed-width binary-ish signature avoids
	// accidental collisions between "1,23" and "12,3".
	buf := make([]byte, 0, len(keys)*9)
	for _, k := range keys {
		v := uint64(t[k][col])
		for i := 0; i < 8; i++ {
			buf = append(buf, byte(v>>(8*i)))
		}
		buf = append(buf, ',')
	}
	return string(buf)
}
