package search

import (
	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// AccessEdgeOnly admits any non-edge element unconditionally; edge
// elements must belong to at least one input structure.
//
// Grounded on TemplateSearcherOnlyAccessEdgesInStructures.cpp.
type AccessEdgeOnly struct {
	base
}

// NewAccessEdgeOnly returns an access-edge-only Searcher.
func NewAccessEdgeOnly(s store.Store, reg *keynodes.Registry) *AccessEdgeOnly {
	a := &AccessEdgeOnly{base: newBase(s, reg)}
	a.matchOne = func(tmpl store.Template, onItem store.ItemCallback) error {
		return a.s.Search(tmpl, onItem, a.admissible)
	}
	return a
}

func (a *AccessEdgeOnly) admissible(el store.Addr) bool {
	t, err := a.s.ElementType(el)
	if err != nil {
		return false
	}
	if !t.IsEdge() {
		return true
	}
	for _, s := range a.inputStructures {
		ok, err := a.s.HasEdge(s, el, store.EdgeAccessConstPosPerm)
		if err == nil && ok {
			return true
		}
	}
	return false
}

func (a *AccessEdgeOnly) Search(formula store.Addr, bindings []store.Params, variables []store.Addr) (replacement.Table, error) {
	return a.search(formula, bindings, variables)
}
