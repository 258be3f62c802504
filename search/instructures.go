package search

import (
	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/lru"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// defaultMembershipCacheSize bounds the positive-membership LRU cache
// shared across one top-level search; a reasonable default, per the
// Design Notes' "low millions" guidance, scaled down for library defaults.
const defaultMembershipCacheSize = 1 << 16

// InStructures is the whole-structure policy: every matched element (node
// or edge) must belong to at least one declared input structure. A
// positive-membership LRU cache avoids repeated HasEdge calls against the
// same elements during one search.
//
// Grounded on TemplateSearcherInStructures.cpp.
type InStructures struct {
	base
	cache *lru.Set
}

// NewInStructures returns a whole-structure Searcher. cacheSize bounds the
// positive-membership cache; a non-positive value uses
// defaultMembershipCacheSize.
func NewInStructures(s store.Store, reg *keynodes.Registry, cacheSize int) (*InStructures, error) {
	if cacheSize <= 0 {
		cacheSize = defaultMembershipCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	is := &InStructures{base: newBase(s, reg), cache: cache}
	is.matchOne = func(tmpl store.Template, onItem store.ItemCallback) error {
		return is.s.SmartSearch(tmpl, onItem, is.inStructures)
	}
	return is, nil
}

func (is *InStructures) inStructures(el store.Addr) bool {
	if is.cache.Contains(el) {
		return true
	}
	for _, s := range is.inputStructures {
		ok, err := is.s.HasEdge(s, el, store.EdgeAccessConstPosPerm)
		if err == nil && ok {
			is.cache.Insert(el)
			return true
		}
	}
	return false
}

// Search clears the membership cache (per spec.md §5, "cleared at the
// start of each top-level search") before enumerating matches.
func (is *InStructures) Search(formula store.Addr, bindings []store.Params, variables []store.Addr) (replacement.Table, error) {
	is.cache.Clear()
	return is.search(formula, bindings, variables)
}
