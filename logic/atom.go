package logic

import (
	"fmt"

	"github.com/kilativ-dotcom/scl-machine/manager"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// atomNode is a leaf template formula.
type atomNode struct {
	formula store.Addr
	deps    Deps
}

func (a *atomNode) variables() ([]store.Addr, error) {
	return a.deps.Searcher.GetVariables(a.formula)
}

// withoutEdgeKeys drops edge-typed keys from a replacements table before
// building Params, since BuildTemplate only accepts node-valued bindings.
// Grounded on TemplateExpressionNode.cpp's getReplacementsWithoutEdges.
func (a *atomNode) withoutEdgeKeys(t replacement.Table) (replacement.Table, error) {
	drop := make(map[store.Addr]struct{})
	for k := range t {
		et, err := a.deps.Store.ElementType(k)
		if err != nil {
			return nil, fmt.Errorf("logic: element type of key %v: %w", k, err)
		}
		if et.IsEdge() {
			drop[k] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return t, nil
	}
	return replacement.RemoveRows(t, drop), nil
}

func (a *atomNode) Check(binding store.Params) (Result, error) {
	return a.Find(fromParams(binding))
}

func (a *atomNode) Compute(in Result) (Result, error) {
	return a.Find(in.Replacements)
}

func (a *atomNode) Find(replacements replacement.Table) (Result, error) {
	variables, err := a.variables()
	if err != nil {
		return falseResult(), err
	}
	filtered, err := a.withoutEdgeKeys(replacements)
	if err != nil {
		return falseResult(), err
	}
	bindings := paramsFromTable(a.deps.Store, filtered)

	result, err := a.deps.Searcher.Search(a.formula, bindings, variables)
	if err != nil {
		return falseResult(), fmt.Errorf("logic: atom find %v: %w", a.formula, err)
	}
	return Result{Value: replacement.Columns(result) > 0, Replacements: result}, nil
}

// Generate implements spec.md §4.5's atom generation algorithm.
func (a *atomNode) Generate(replacements replacement.Table) (Result, error) {
	if replacement.Columns(replacements) == 0 {
		return falseResult(), fmt.Errorf("logic: atom generate %v: %w: replacements must be non-empty", a.formula, store.ErrInvalidParams)
	}

	variables, err := a.variables()
	if err != nil {
		return falseResult(), err
	}

	resultWithoutReplacements := make(replacement.Table)
	if a.deps.Searcher.PreGenerationSearchModeValue() != search.SkipPreGenerationSearch {
		unrestricted := search.NewUnrestricted(a.deps.Store, a.deps.Registry)
		resultWithoutReplacements, err = unrestricted.Search(a.formula, nil, variables)
		if err != nil {
			return falseResult(), fmt.Errorf("logic: atom pre-generation search %v: %w", a.formula, err)
		}
	}

	// A genuinely empty pre-generation search (no pre-existing instances)
	// must not be treated as Intersect's zero-column identity case, which
	// would otherwise make "existing" equal to the caller's replacements in
	// full and so generate nothing. Only fall through to the generic
	// intersect once the search actually found something.
	var existing replacement.Table
	if replacement.Columns(resultWithoutReplacements) == 0 {
		existing = make(replacement.Table, len(replacements))
		for k := range replacements {
			existing[k] = nil
		}
	} else {
		existing = replacement.Intersect(resultWithoutReplacements, replacements)
	}

	// GENERATE_UNIQUE_FORMULAS generates only what isn't already present;
	// GENERATE_ALL never skips on the basis of existence.
	var toGenerate replacement.Table
	if a.deps.Manager.GenerationType() == manager.GenerateUniqueFormulas {
		toGenerate = replacement.Subtract(replacements, existing)
	} else {
		toGenerate = replacement.Copy(replacements)
	}

	constants, err := a.deps.Searcher.GetConstants(a.formula)
	if err != nil {
		return falseResult(), err
	}

	generatedTable := make(replacement.Table)
	anyGenerated := false
	for _, binding := range replacement.ToBindings(toGenerate) {
		params, err := a.paramsFromBinding(binding)
		if err != nil {
			return falseResult(), err
		}
		tmpl, err := a.deps.Store.BuildTemplate(a.formula, params)
		if err != nil {
			return falseResult(), fmt.Errorf("logic: atom generate %v: %w: %v", a.formula, store.ErrTemplateNotBuilt, err)
		}
		genResult, err := a.deps.Store.GenerateByTemplate(tmpl, params)
		if err != nil {
			return falseResult(), fmt.Errorf("logic: atom generate %v: %w", a.formula, err)
		}
		anyGenerated = true

		toPublish := genResult.Elements()
		if a.deps.Manager.OutputStructureFillingType() == search.SearchedAndGenerated {
			found, err := a.Find(fromParams(params))
			if err == nil && found.Value {
				for _, v := range variables {
					if val, ok := found.Replacements[v]; ok && len(val) > 0 {
						toPublish = append(toPublish, val[0])
					}
				}
			}
		}
		if a.deps.Output != nil {
			if err := a.deps.Output.Publish(toPublish...); err != nil {
				return falseResult(), err
			}
			if err := a.deps.Output.Publish(constants...); err != nil {
				return falseResult(), err
			}
		}

		for _, v := range variables {
			val, ok := genResult.Get(v)
			if !ok {
				val, ok = binding[v]
				if !ok {
					return falseResult(), fmt.Errorf("logic: atom generate %v: %w: variable %v unbound after generation", a.formula, store.ErrInvalidState, v)
				}
			}
			generatedTable[v] = append(generatedTable[v], val)
		}
	}

	// The result's replacements are what was already known (existing) plus
	// what was freshly generated this call.
	final := replacement.DeduplicateColumns(concatColumns(existing, generatedTable))
	return Result{
		Value:        replacement.Columns(final) > 0 || replacement.Columns(existing) > 0,
		IsGenerated:  anyGenerated && replacement.Columns(toGenerate) > 0,
		Replacements: final,
	}, nil
}

func (a *atomNode) paramsFromBinding(binding replacement.Binding) (store.Params, error) {
	p := a.deps.Store.NewParams()
	for v, val := range binding {
		et, err := a.deps.Store.ElementType(v)
		if err != nil {
			return nil, err
		}
		if et.IsEdge() {
			continue
		}
		p.Add(v, val)
	}
	return p, nil
}

func paramsFromTable(s store.Store, t replacement.Table) []store.Params {
	bindings := replacement.ToBindings(t)
	if len(bindings) == 0 {
		return nil
	}
	params := make([]store.Params, len(bindings))
	for i, b := range bindings {
		p := s.NewParams()
		for v, val := range b {
			p.Add(v, val)
		}
		params[i] = p
	}
	return params
}
