// Package logic implements the expression-tree side of the formula
// classifier/expression-tree component (C6): a tagged-variant dispatch
// over connective kinds, each exposing the shared Check/Compute/Find/
// Generate interface described in spec.md §4.5.
//
// Grounded on TemplateExpressionNode.cpp and the per-connective node
// headers (ConjunctionExpressionNode.hpp, DisjunctionExpressionNode.hpp,
// NegationExpressionNode.hpp, ImplicationExpressionNode.hpp,
// EquivalenceExpressionNode.hpp, QuantifierExpressionNode.hpp) under
// _examples/original_source/problem-solver/cxx/inferenceModule/logic/.
package logic

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/kilativ-dotcom/scl-machine/classifier"
	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/manager"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// Result is the outcome of evaluating a node: whether it holds, whether
// evaluating it created new elements, and the substitution table under
// which it holds.
type Result struct {
	Value        bool
	IsGenerated  bool
	Replacements replacement.Table
}

// falseResult is the canonical empty-replacements failure result.
func falseResult() Result {
	return Result{Value: false, Replacements: make(replacement.Table)}
}

// Node is the shared expression-node interface every connective kind
// implements.
type Node interface {
	// Check is a quick truth test of the node under one concrete binding.
	Check(binding store.Params) (Result, error)
	// Compute evaluates the node for real: premises are found, conclusions
	// (when this node sits in conclusion position under an implication or
	// equivalence) are generated.
	Compute(in Result) (Result, error)
	// Find searches only; it never creates new elements.
	Find(replacements replacement.Table) (Result, error)
	// Generate attempts to make the node hold, creating new elements for
	// unsatisfied atoms. replacements must be non-empty.
	Generate(replacements replacement.Table) (Result, error)
}

// Deps bundles the collaborators every node needs: the store, the keynode
// registry, the searcher/manager pair driving atom lookups and candidate
// bindings, the output structure atoms publish into, the rule's argument
// vector (pushed down from the driver per spec.md §4.5 "argument-vector
// propagation"), and a logger.
type Deps struct {
	Store     store.Store
	Registry  *keynodes.Registry
	Searcher  search.Searcher
	Manager   *manager.Manager
	Output    *OutputStructure
	Arguments []store.Addr
	Logger    hclog.Logger
}

func (d Deps) logger() hclog.Logger {
	if d.Logger == nil {
		return hclog.NewNullLogger()
	}
	return d.Logger
}

// OutputStructure publishes elements a rule application touches, via
// access-edge membership from a root node created once per inference
// invocation.
type OutputStructure struct {
	s    store.Store
	Root store.Addr
}

// NewOutputStructure allocates a fresh output structure root.
func NewOutputStructure(s store.Store) (*OutputStructure, error) {
	root, err := s.CreateNode(store.NodeConst)
	if err != nil {
		return nil, fmt.Errorf("logic: create output structure root: %w", err)
	}
	return &OutputStructure{s: s, Root: root}, nil
}

// Publish links every non-invalid element to the output structure root,
// skipping elements already linked.
func (o *OutputStructure) Publish(elements ...store.Addr) error {
	for _, el := range elements {
		if !el.IsValid() {
			continue
		}
		ok, err := o.s.HasEdge(o.Root, el, store.EdgeAccessConstPosPerm)
		if err != nil {
			return fmt.Errorf("logic: check output structure membership: %w", err)
		}
		if ok {
			continue
		}
		if _, err := o.s.CreateEdge(store.EdgeAccessConstPosPerm, o.Root, el); err != nil {
			return fmt.Errorf("logic: publish to output structure: %w", err)
		}
	}
	return nil
}

// fromParams turns a single Params binding into a one-column Table, for
// Check's "quick test under a concrete binding" semantics.
func fromParams(p store.Params) replacement.Table {
	t := make(replacement.Table)
	if p == nil {
		return t
	}
	for _, v := range p.Variables() {
		val, _ := p.Get(v)
		t[v] = []store.Addr{val}
	}
	return t
}

// bindVariable extends t with variable bound to value on every existing
// column (cross-product with one concrete value), or starts a fresh
// single-column table if t is empty.
func bindVariable(t replacement.Table, variable, value store.Addr) replacement.Table {
	cols := replacement.Columns(t)
	result := make(replacement.Table, len(t)+1)
	for k := range t {
		result[k] = nil
	}
	result[variable] = nil
	if cols == 0 {
		result[variable] = append(result[variable], value)
		return result
	}
	for c := 0; c < cols; c++ {
		for k, vals := range t {
			result[k] = append(result[k], vals[c])
		}
		result[variable] = append(result[variable], value)
	}
	return result
}

// concatColumns appends b's columns after a's, assuming a and b share the
// same key set (unlike Unite, which cross-products non-common keys). Keys
// present in only one of a or b get store.Invalid padding for the other's
// rows.
func concatColumns(a, b replacement.Table) replacement.Table {
	aCols, bCols := replacement.Columns(a), replacement.Columns(b)
	if aCols == 0 {
		return replacement.Copy(b)
	}
	if bCols == 0 {
		return replacement.Copy(a)
	}

	keys := make(map[store.Addr]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}

	result := make(replacement.Table, len(keys))
	for k := range keys {
		vals := make([]store.Addr, 0, aCols+bCols)
		if av, ok := a[k]; ok {
			vals = append(vals, av...)
		} else {
			for i := 0; i < aCols; i++ {
				vals = append(vals, store.Invalid)
			}
		}
		if bv, ok := b[k]; ok {
			vals = append(vals, bv...)
		} else {
			for i := 0; i < bCols; i++ {
				vals = append(vals, store.Invalid)
			}
		}
		result[k] = vals
	}
	return result
}

// Build walks the classifier recursively to construct the expression tree
// for formula, once per rule.
func Build(formula store.Addr, deps Deps) (Node, error) {
	kind, err := classifier.Classify(deps.Store, deps.Registry, formula)
	if err != nil {
		return nil, fmt.Errorf("logic: classify %v: %w", formula, err)
	}

	switch kind {
	case classifier.Atom:
		return &atomNode{formula: formula, deps: deps}, nil

	case classifier.Negation:
		operands, err := classifier.Operands(deps.Store, formula)
		if err != nil {
			return nil, err
		}
		if len(operands) != 1 {
			return nil, fmt.Errorf("logic: negation %v has %d operands, want 1", formula, len(operands))
		}
		body, err := Build(operands[0], deps)
		if err != nil {
			return nil, err
		}
		return &negationNode{formula: formula, body: body, deps: deps}, nil

	case classifier.Conjunction:
		children, err := buildChildren(deps.Store, formula, deps)
		if err != nil {
			return nil, err
		}
		return &conjunctionNode{formula: formula, children: children, deps: deps}, nil

	case classifier.Disjunction:
		children, err := buildChildren(deps.Store, formula, deps)
		if err != nil {
			return nil, err
		}
		return &disjunctionNode{formula: formula, children: children, deps: deps}, nil

	case classifier.Implication, classifier.Equivalence:
		premiseAddr, conclusionAddr, err := classifier.ImplicationParts(deps.Store, formula)
		if err != nil {
			return nil, err
		}
		premise, err := Build(premiseAddr, deps)
		if err != nil {
			return nil, err
		}
		conclusion, err := Build(conclusionAddr, deps)
		if err != nil {
			return nil, err
		}
		if kind == classifier.Implication {
			return &implicationNode{formula: formula, premise: premise, conclusion: conclusion, deps: deps}, nil
		}
		return &equivalenceNode{
			formula:  formula,
			forward:  &implicationNode{formula: formula, premise: premise, conclusion: conclusion, deps: deps},
			backward: &implicationNode{formula: formula, premise: conclusion, conclusion: premise, deps: deps},
			deps:     deps,
		}, nil

	case classifier.Universal, classifier.Existential:
		variable, bodyAddr, err := classifier.QuantifierParts(deps.Store, deps.Registry, formula)
		if err != nil {
			return nil, err
		}
		body, err := Build(bodyAddr, deps)
		if err != nil {
			return nil, err
		}
		return &quantifierNode{
			formula:   formula,
			variable:  variable,
			body:      body,
			universal: kind == classifier.Universal,
			deps:      deps,
		}, nil

	default:
		return nil, fmt.Errorf("logic: unhandled classifier kind %v for formula %v", kind, formula)
	}
}

func buildChildren(s store.Store, formula store.Addr, deps Deps) ([]Node, error) {
	operandAddrs, err := classifier.Operands(s, formula)
	if err != nil {
		return nil, err
	}
	if len(operandAddrs) == 0 {
		return nil, fmt.Errorf("logic: %v has no operands", formula)
	}
	children := make([]Node, len(operandAddrs))
	for i, addr := range operandAddrs {
		child, err := Build(addr, deps)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return children, nil
}
