// Package manager implements the template manager (C4): it produces
// candidate parameter bindings for a formula's free variables from a
// supplied argument list, and carries the policy flags the expression
// tree consults while evaluating a rule.
//
// Grounded on DirectInferenceManager's use of
// TemplateManager::createTemplateParams, under
// _examples/original_source/problem-solver/cxx/inferenceModule/manager/.
package manager

import (
	"fmt"
	"sort"

	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// GenerationType decides whether an atom skips generation when a matching
// instance already exists.
type GenerationType int

const (
	GenerateUniqueFormulas GenerationType = iota
	GenerateAll
)

// Manager holds the policy flags consulted by the expression tree and
// builds Cartesian-product candidate bindings for a rule's free variables.
type Manager struct {
	s        store.Store
	searcher search.Searcher

	generationType GenerationType
	usingType      search.ReplacementsUsingType
	fillingType    search.FillingType
}

// New returns a Manager driving searches through searcher.
func New(s store.Store, searcher search.Searcher) *Manager {
	return &Manager{
		s:              s,
		searcher:       searcher,
		generationType: GenerateUniqueFormulas,
		usingType:      search.ReplacementsFirst,
		fillingType:    search.GeneratedOnly,
	}
}

func (m *Manager) Searcher() search.Searcher { return m.searcher }

func (m *Manager) SetGenerationType(t GenerationType) { m.generationType = t }
func (m *Manager) GenerationType() GenerationType     { return m.generationType }

func (m *Manager) SetReplacementsUsingType(t search.ReplacementsUsingType) {
	m.usingType = t
	m.searcher.SetReplacementsUsingType(t)
}
func (m *Manager) ReplacementsUsingType() search.ReplacementsUsingType { return m.usingType }

func (m *Manager) SetOutputStructureFillingType(t search.FillingType) {
	m.fillingType = t
	m.searcher.SetOutputStructureFillingType(t)
}
func (m *Manager) OutputStructureFillingType() search.FillingType { return m.fillingType }

// typeCompatible reports whether a candidate argument's type is consistent
// with a free variable's declared type: node binds to node, edge to edge,
// with access/common-edge and link refinements honored when the variable
// specifies them.
func typeCompatible(varType, argType store.ElementType) bool {
	bare := func(t store.ElementType) store.ElementType {
		return t &^ (store.TypeVar | store.TypeConst)
	}
	v, a := bare(varType), bare(argType)
	if v.IsNode() != a.IsNode() || v.IsEdge() != a.IsEdge() {
		return false
	}
	if v.IsLink() && !a.IsLink() {
		return false
	}
	if v.IsAccessEdge() && !a.IsAccessEdge() {
		return false
	}
	if v.IsCommonEdge() && !a.IsCommonEdge() {
		return false
	}
	return true
}

// CreateTemplateParams enumerates formula's free variables via the
// searcher, considers each argument as a candidate value for each
// variable consistent with its declared type, and emits the
// deduplicated Cartesian product as a list of Params.
func (m *Manager) CreateTemplateParams(formula store.Addr, args []store.Addr) ([]store.Params, error) {
	variables, err := m.searcher.GetVariables(formula)
	if err != nil {
		return nil, fmt.Errorf("manager: get variables: %w", err)
	}
	if len(variables) == 0 {
		return nil, nil
	}

	candidates := make([][]store.Addr, len(variables))
	for i, v := range variables {
		varType, err := m.s.ElementType(v)
		if err != nil {
			return nil, fmt.Errorf("manager: element type of variable %v: %w", v, err)
		}
		for _, arg := range args {
			argType, err := m.s.ElementType(arg)
			if err != nil {
				return nil, fmt.Errorf("manager: element type of argument %v: %w", arg, err)
			}
			if typeCompatible(varType, argType) {
				candidates[i] = append(candidates[i], arg)
			}
		}
		if len(candidates[i]) == 0 {
			return nil, nil
		}
	}

	var combos []map[store.Addr]store.Addr
	var build func(i int, acc map[store.Addr]store.Addr)
	build = func(i int, acc map[store.Addr]store.Addr) {
		if i == len(variables) {
			copied := make(map[store.Addr]store.Addr, len(acc))
			for k, v := range acc {
				copied[k] = v
			}
			combos = append(combos, copied)
			return
		}
		for _, c := range candidates[i] {
			acc[variables[i]] = c
			build(i+1, acc)
		}
		delete(acc, variables[i])
	}
	build(0, make(map[store.Addr]store.Addr, len(variables)))

	seen := make(map[string]struct{}, len(combos))
	result := make([]store.Params, 0, len(combos))
	for _, combo := range combos {
		key := comboKey(variables, combo)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		p := m.s.NewParams()
		for _, v := range variables {
			p.Add(v, combo[v])
		}
		result = append(result, p)
	}
	return result, nil
}

func comboKey(variables []store.Addr, combo map[store.Addr]store.Addr) string {
	sorted := make([]store.Addr, len(variables))
	copy(sorted, variables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	key := make([]byte, 0, len(sorted)*16)
	for _, v := range sorted {
		key = fmt.Appendf(key, "%d=%d;", v, combo[v])
	}
	return string(key)
}
