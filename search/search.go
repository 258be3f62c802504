// Package search implements the template searcher family (C3): three
// policy variants sharing one base implementation, each returning a
// Replacements table of every substitution under which an atomic formula
// (represented, per store.Store's contract, as a single pattern edge)
// exists in the knowledge base.
//
// Grounded on TemplateSearcherAbstract.hpp (the shared base),
// TemplateSearcherInStructures.hpp/.cpp (whole-structure policy with LRU
// cache) and TemplateSearcherOnlyAccessEdgesInStructures.cpp
// (access-edge-only policy), all under
// _examples/original_source/problem-solver/cxx/inferenceModule/searcher/.
package search

import (
	"fmt"

	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/lru"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// ReplacementsUsingType is the early-stop policy: stop at the first match
// per binding, or enumerate every match.
type ReplacementsUsingType int

const (
	ReplacementsFirst ReplacementsUsingType = iota
	ReplacementsAll
)

// FillingType decides what a generating atom publishes into the output
// structure: only what it created, or also what it found already present.
type FillingType int

const (
	GeneratedOnly FillingType = iota
	SearchedAndGenerated
)

// PreGenerationSearchMode resolves the open question (spec.md §9) of
// whether an atom's generate step searches for pre-existing instances
// before applying uniqueness filtering.
type PreGenerationSearchMode int

const (
	SearchWithoutReplacements PreGenerationSearchMode = iota
	SkipPreGenerationSearch
)

// Searcher is the shared interface of all three policy variants.
type Searcher interface {
	GetVariables(formula store.Addr) ([]store.Addr, error)
	GetConstants(formula store.Addr) ([]store.Addr, error)
	SetInputStructures(structures []store.Addr)
	SetReplacementsUsingType(t ReplacementsUsingType)
	SetOutputStructureFillingType(t FillingType)
	SetPreGenerationSearchMode(m PreGenerationSearchMode)
	FillingTypeValue() FillingType
	PreGenerationSearchModeValue() PreGenerationSearchMode

	// Search enumerates, for each supplied binding, every match of formula
	// consistent with that binding, projected onto variables, and unions
	// the per-binding results column-wise. An empty bindings slice searches
	// with no pre-bound variables.
	Search(formula store.Addr, bindings []store.Params, variables []store.Addr) (replacement.Table, error)
}

// base implements the policy-independent parts of Searcher: variable /
// constant introspection, configuration, content-identity filtering, and
// the binding loop. Concrete variants supply matchOne, the per-binding
// search call with their own element filter.
type base struct {
	s   store.Store
	reg *keynodes.Registry

	inputStructures []store.Addr
	usingType       ReplacementsUsingType
	fillingType     FillingType
	preGenMode      PreGenerationSearchMode

	matchOne func(tmpl store.Template, onItem store.ItemCallback) error
}

func newBase(s store.Store, reg *keynodes.Registry) base {
	return base{s: s, reg: reg, usingType: ReplacementsFirst}
}

func (b *base) SetInputStructures(structures []store.Addr)          { b.inputStructures = structures }
func (b *base) SetReplacementsUsingType(t ReplacementsUsingType)     { b.usingType = t }
func (b *base) SetOutputStructureFillingType(t FillingType)         { b.fillingType = t }
func (b *base) SetPreGenerationSearchMode(m PreGenerationSearchMode) { b.preGenMode = m }
func (b *base) FillingTypeValue() FillingType                       { return b.fillingType }
func (b *base) PreGenerationSearchModeValue() PreGenerationSearchMode {
	return b.preGenMode
}

// GetVariables returns formula's variable-typed endpoints.
func (b *base) GetVariables(formula store.Addr) ([]store.Addr, error) {
	return b.endpointsWhere(formula, func(t store.ElementType) bool { return t.IsVar() })
}

// GetConstants returns formula's constant-typed endpoints.
func (b *base) GetConstants(formula store.Addr) ([]store.Addr, error) {
	return b.endpointsWhere(formula, func(t store.ElementType) bool { return !t.IsVar() })
}

func (b *base) endpointsWhere(formula store.Addr, keep func(store.ElementType) bool) ([]store.Addr, error) {
	from, to, err := b.s.EdgeEndpoints(formula)
	if err != nil {
		return nil, fmt.Errorf("search: endpoints of %v: %w", formula, err)
	}
	var out []store.Addr
	seen := make(map[store.Addr]struct{}, 2)
	for _, el := range []store.Addr{from, to} {
		if _, dup := seen[el]; dup {
			continue
		}
		t, err := b.s.ElementType(el)
		if err != nil {
			return nil, fmt.Errorf("search: element type of %v: %w", el, err)
		}
		if keep(t) {
			out = append(out, el)
			seen[el] = struct{}{}
		}
	}
	return out, nil
}

func (b *base) hasTemplateWithLinks(formula store.Addr) (bool, error) {
	marker := b.reg.ConceptTemplateWithLinks()
	if !marker.IsValid() {
		return false, nil
	}
	return b.s.HasEdge(marker, formula, store.EdgeAccessConstPosPerm)
}

// contentIdentityOK checks, for every variable already bound in binding to
// a link element, that the matched value for that variable is a link with
// identical string content.
func (b *base) contentIdentityOK(binding store.Params, item store.SearchItem, variables []store.Addr) (bool, error) {
	for _, v := range variables {
		wantLink, ok := binding.Get(v)
		if !ok {
			continue
		}
		t, err := b.s.ElementType(wantLink)
		if err != nil || !t.IsLink() {
			continue
		}
		gotLink, ok := item.Get(v)
		if !ok {
			continue
		}
		gotType, err := b.s.ElementType(gotLink)
		if err != nil {
			return false, err
		}
		if !gotType.IsLink() {
			return false, nil
		}
		wantContent, err := b.s.GetLinkContent(wantLink)
		if err != nil {
			return false, err
		}
		gotContent, err := b.s.GetLinkContent(gotLink)
		if err != nil {
			return false, err
		}
		if wantContent != gotContent {
			return false, nil
		}
	}
	return true, nil
}

// search is the shared driver for all three variants: build the template
// once per binding, invoke the variant's matchOne, and union columns
// across bindings.
func (b *base) search(formula store.Addr, bindings []store.Params, variables []store.Addr) (replacement.Table, error) {
	if len(bindings) == 0 {
		bindings = []store.Params{nil}
	}
	requireLinks, err := b.hasTemplateWithLinks(formula)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	result := make(replacement.Table)
	for _, v := range variables {
		result[v] = nil
	}

	for _, binding := range bindings {
		tmpl, err := b.s.BuildTemplate(formula, binding)
		if err != nil {
			return nil, fmt.Errorf("search: build template for %v: %w: %v", formula, store.ErrTemplateNotBuilt, err)
		}

		var bindingErr error
		onItem := func(item store.SearchItem) store.SearchRequest {
			if requireLinks && binding != nil {
				ok, err := b.contentIdentityOK(binding, item, variables)
				if err != nil {
					bindingErr = err
					return store.Stop
				}
				if !ok {
					return store.Continue
				}
			}
			for _, v := range variables {
				val, ok := item.Get(v)
				if !ok {
					val = store.Invalid
				}
				result[v] = append(result[v], val)
			}
			if b.usingType == ReplacementsFirst {
				return store.Stop
			}
			return store.Continue
		}

		if err := b.matchOne(tmpl, onItem); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		if bindingErr != nil {
			return nil, fmt.Errorf("search: content identity: %w", bindingErr)
		}
	}

	return replacement.DeduplicateColumns(result), nil
}
