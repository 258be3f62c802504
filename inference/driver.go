// Package inference implements the forward-chaining driver (C8): it
// enumerates priority-ordered rule sets, builds and computes each rule's
// expression tree, and restarts at the top priority whenever a rule
// generates new facts, stopping once the target is satisfied or every
// rule set is exhausted without progress.
//
// Grounded on DirectInferenceManager::applyInference under
// _examples/original_source/problem-solver/cxx/inferenceModule/manager/DirectInferenceManager.cpp.
package inference

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/kilativ-dotcom/scl-machine/classifier"
	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/logic"
	"github.com/kilativ-dotcom/scl-machine/manager"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/solution"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// FlowConfig carries the per-invocation policy flags spec.md §9 leaves as
// open questions, resolved here as explicit toggles rather than baked-in
// constants.
type FlowConfig struct {
	// GenerateSolutionTree disables solution-tree recording entirely when
	// false (a caller only interested in whether the target is reachable).
	GenerateSolutionTree bool
	// SearchInKbWhenGenerating selects search.SearchWithoutReplacements
	// (true) or search.SkipPreGenerationSearch (false) for every atom.
	SearchInKbWhenGenerating bool
	// ReplacementsAll selects search.ReplacementsAll (true) or
	// search.ReplacementsFirst (false, the default early-stop policy).
	ReplacementsAll bool
}

// Driver ties the searcher, manager, and solution recorder together to run
// one forward-chaining inference.
type Driver struct {
	s        store.Store
	reg      *keynodes.Registry
	searcher search.Searcher
	manager  *manager.Manager
	logger   hclog.Logger
}

// New returns a Driver whose rule applications run through searcher and
// manager.
func New(s store.Store, reg *keynodes.Registry, searcher search.Searcher, mgr *manager.Manager, logger hclog.Logger) *Driver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Driver{s: s, reg: reg, searcher: searcher, manager: mgr, logger: logger}
}

// ApplyInference implements spec.md §4.7's six-step algorithm: it seeds
// the searcher with arguments, short-circuits if the target already
// holds, then alternates rule sets by priority, restarting at the top
// priority set after any generation, until the target is achieved or no
// rule set produces further progress.
func (d *Driver) ApplyInference(ctx context.Context, target, formulasSet, arguments, inputStructure store.Addr, cfg FlowConfig) (store.Addr, error) {
	d.manager.SetReplacementsUsingType(usingType(cfg))
	d.searcher.SetPreGenerationSearchMode(preGenMode(cfg))
	if inputStructure.IsValid() {
		d.searcher.SetInputStructures([]store.Addr{inputStructure})
	}

	output, err := logic.NewOutputStructure(d.s)
	if err != nil {
		return store.Invalid, err
	}

	rec, err := solution.New(d.s, d.reg, d.logger)
	if err != nil {
		return store.Invalid, err
	}

	argumentVector, err := d.collectArguments(arguments)
	if err != nil {
		return store.Invalid, err
	}

	targetAchieved, err := d.isTargetAchieved(target, argumentVector)
	if err != nil {
		return store.Invalid, err
	}
	if targetAchieved {
		d.logger.Debug("target already achieved")
		return rec.CreateSolution(output.Root, true)
	}

	ruleSets, err := d.ruleSetsByPriority(formulasSet)
	if err != nil {
		return store.Invalid, err
	}
	if len(ruleSets) == 0 {
		return store.Invalid, fmt.Errorf("inference: %w: no rule sets found under %v", store.ErrItemNotFound, formulasSet)
	}

	d.logger.Debug("starting rule application", "rule_sets", len(ruleSets))

	for i := 0; i < len(ruleSets) && !targetAchieved; i++ {
		if err := ctx.Err(); err != nil {
			return store.Invalid, err
		}

		rules, err := classifier.Operands(d.s, ruleSets[i])
		if err != nil {
			return store.Invalid, err
		}

		for _, rule := range rules {
			formulaRoot, ok, err := d.mainFormula(rule)
			if err != nil {
				return store.Invalid, err
			}
			if !ok {
				continue
			}

			result, err := d.applyRule(formulaRoot, argumentVector, output)
			if err != nil {
				return store.Invalid, err
			}
			d.logger.Debug("rule applied", "rule", rule, "generated", result.IsGenerated)
			if !result.IsGenerated {
				continue
			}

			if cfg.GenerateSolutionTree {
				if err := rec.AddNode(formulaRoot, result.Replacements); err != nil {
					return store.Invalid, err
				}
			}

			targetAchieved, err = d.isTargetAchieved(target, argumentVector)
			if err != nil {
				return store.Invalid, err
			}
			if targetAchieved {
				d.logger.Debug("target achieved")
				break
			}
			// Restart at the top-priority set: the C++ driver resets the
			// loop index to -1 so the for-loop's increment brings it to 0.
			i = -1
			break
		}
	}

	return rec.CreateSolution(output.Root, targetAchieved)
}

func usingType(cfg FlowConfig) search.ReplacementsUsingType {
	if cfg.ReplacementsAll {
		return search.ReplacementsAll
	}
	return search.ReplacementsFirst
}

func preGenMode(cfg FlowConfig) search.PreGenerationSearchMode {
	if cfg.SearchInKbWhenGenerating {
		return search.SearchWithoutReplacements
	}
	return search.SkipPreGenerationSearch
}

// collectArguments reads the member elements of the arguments set.
func (d *Driver) collectArguments(arguments store.Addr) ([]store.Addr, error) {
	if !arguments.IsValid() {
		return nil, nil
	}
	members, err := classifier.Operands(d.s, arguments)
	if err != nil {
		return nil, fmt.Errorf("inference: collect arguments: %w", err)
	}
	return members, nil
}

// isTargetAchieved reports whether target already holds under some
// argument-derived binding. A fully-ground target (no free variables) is
// checked directly, since a Replacements table with no keys cannot
// distinguish "matched with no variables" from "no match" (see
// replacement.Table's zero-column convention).
func (d *Driver) isTargetAchieved(target store.Addr, argumentVector []store.Addr) (bool, error) {
	variables, err := d.searcher.GetVariables(target)
	if err != nil {
		return false, fmt.Errorf("inference: check target: %w", err)
	}
	if len(variables) == 0 {
		from, to, err := d.s.EdgeEndpoints(target)
		if err != nil {
			return false, fmt.Errorf("inference: check target: %w", err)
		}
		t, err := d.s.ElementType(target)
		if err != nil {
			return false, fmt.Errorf("inference: check target: %w", err)
		}
		return d.s.HasEdge(from, to, t)
	}

	paramsList, err := d.manager.CreateTemplateParams(target, argumentVector)
	if err != nil {
		return false, fmt.Errorf("inference: check target: %w", err)
	}
	if paramsList == nil {
		return false, nil
	}
	result, err := d.searcher.Search(target, paramsList, variables)
	if err != nil {
		return false, fmt.Errorf("inference: check target: %w", err)
	}
	return replacement.Columns(result) > 0, nil
}

// ruleSetsByPriority walks the rrel_1-chained linked list of rule sets
// hanging off formulasSet: rrel_1 both selects the first set out of
// formulasSet and, reused, chains each subsequent set out of the previous
// one.
func (d *Driver) ruleSetsByPriority(formulasSet store.Addr) ([]store.Addr, error) {
	var sets []store.Addr
	relation := d.reg.RRel1()
	current := formulasSet
	for {
		next, ok, err := firstByRelation(d.s, current, relation)
		if err != nil {
			return nil, fmt.Errorf("inference: enumerate rule sets: %w", err)
		}
		if !ok {
			break
		}
		sets = append(sets, next)
		current = next
	}
	return sets, nil
}

// mainFormula resolves a rule's main formula root via rrel_main_key_sc_element.
func (d *Driver) mainFormula(rule store.Addr) (store.Addr, bool, error) {
	return firstByRelation(d.s, rule, d.reg.RRelMainKeyScElement())
}

// firstByRelation finds the first access-edge out of from whose membership
// in relation holds, returning its target.
func firstByRelation(s store.Store, from, relation store.Addr) (store.Addr, bool, error) {
	if !relation.IsValid() {
		return store.Invalid, false, nil
	}
	it, err := s.Iterator3(from, store.TypeAccessEdge, 0)
	if err != nil {
		return store.Invalid, false, err
	}
	for it.Next() {
		edge := it.Get(1)
		ok, err := s.HasEdge(relation, edge, store.EdgeAccessConstPosPerm)
		if err != nil {
			return store.Invalid, false, err
		}
		if ok {
			return it.Get(2), true, nil
		}
	}
	return store.Invalid, false, nil
}

// applyRule builds the expression tree for formulaRoot and computes it
// under the rule's argument vector.
func (d *Driver) applyRule(formulaRoot store.Addr, argumentVector []store.Addr, output *logic.OutputStructure) (logic.Result, error) {
	deps := logic.Deps{
		Store:     d.s,
		Registry:  d.reg,
		Searcher:  d.searcher,
		Manager:   d.manager,
		Output:    output,
		Arguments: argumentVector,
		Logger:    d.logger,
	}
	tree, err := logic.Build(formulaRoot, deps)
	if err != nil {
		return logic.Result{}, fmt.Errorf("inference: build rule %v: %w", formulaRoot, err)
	}
	return tree.Compute(logic.Result{Replacements: replacement.Table{}})
}
