// Package lru implements a bounded recency cache of graph element
// identifiers, used by the whole-structure template searcher to accelerate
// repeated input-structure membership tests within one search.
//
// Grounded on LRUScAddrSet from
// problem-solver/cxx/inferenceModule/model/LRUScAddrSet.cpp: a doubly
// linked list plus a hash map for O(1) amortized insert/contains/evict.
package lru

import (
	"container/list"

	"github.com/kilativ-dotcom/scl-machine/store"
)

// Set is a bounded recency cache of store.Addr values.
type Set struct {
	maxSize int
	order   *list.List // front = most recently used
	index   map[store.Addr]*list.Element
}

// New returns a Set that retains at most maxSize elements. maxSize must be
// at least 1.
func New(maxSize int) (*Set, error) {
	if maxSize < 1 {
		return nil, store.ErrInvalidParams
	}
	return &Set{
		maxSize: maxSize,
		order:   list.New(),
		index:   make(map[store.Addr]*list.Element, maxSize),
	}, nil
}

// Contains reports whether element is present, promoting it to
// most-recently-used on a hit.
func (s *Set) Contains(element store.Addr) bool {
	el, ok := s.index[element]
	if !ok {
		return false
	}
	s.order.MoveToFront(el)
	return true
}

// Insert adds element to the set, promoting it if already present.
// Inserting into a full set evicts the least-recently-used entry first.
func (s *Set) Insert(element store.Addr) {
	if el, ok := s.index[element]; ok {
		s.order.MoveToFront(el)
		return
	}
	if s.order.Len() >= s.maxSize {
		s.evictLRU()
	}
	el := s.order.PushFront(element)
	s.index[element] = el
}

func (s *Set) evictLRU() {
	back := s.order.Back()
	if back == nil {
		return
	}
	s.order.Remove(back)
	delete(s.index, back.Value.(store.Addr))
}

// Clear empties the set, used at the start of each top-level search to
// prevent staleness if the knowledge base changed since the previous
// invocation.
func (s *Set) Clear() {
	s.order.Init()
	s.index = make(map[store.Addr]*list.Element, s.maxSize)
}

// Len reports the number of elements currently retained.
func (s *Set) Len() int {
	return s.order.Len()
}
