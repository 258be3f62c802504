// Package classifier inspects a formula element's outgoing relations to
// decide its logical connective kind (C5 of the specification), and
// exposes its operands to the logic package's expression-tree builder.
//
// Grounded on FormulaClassifier from
// scl/cxx/inferenceModule/test/units/TestFormulaClassifier.cpp: a rule's
// main formula element is classified by its membership in one of the
// connective classes (negation, conjunction, disjunction, equivalence,
// quantifiers, implication); a formula in none of them is an atom. An
// implication or equivalence is an sc-edge whose source and target are the
// premise and conclusion, but it is only classified as such when it carries
// the corresponding class membership.
package classifier

import (
	"fmt"

	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// Kind identifies a formula's logical connective.
type Kind int

const (
	Atom Kind = iota
	Negation
	Conjunction
	Disjunction
	Implication
	Equivalence
	Universal
	Existential
)

func (k Kind) String() string {
	switch k {
	case Atom:
		return "atom"
	case Negation:
		return "negation"
	case Conjunction:
		return "conjunction"
	case Disjunction:
		return "disjunction"
	case Implication:
		return "implication"
	case Equivalence:
		return "equivalence"
	case Universal:
		return "universal"
	case Existential:
		return "existential"
	default:
		return "unknown"
	}
}

// membershipOrder lists connective classes checked, in priority order,
// before falling back to the atom default.
func membershipOrder(reg *keynodes.Registry) []struct {
	kind  Kind
	class store.Addr
} {
	return []struct {
		kind  Kind
		class store.Addr
	}{
		{Negation, reg.ConceptNegation()},
		{Conjunction, reg.ConceptConjunction()},
		{Disjunction, reg.ConceptDisjunction()},
		{Equivalence, reg.ConceptEquivalence()},
		{Universal, reg.ConceptUniversal()},
		{Existential, reg.ConceptExistential()},
		{Implication, reg.ConceptImplication()},
	}
}

// Classify decides formula's connective kind.
func Classify(s store.Store, reg *keynodes.Registry, formula store.Addr) (Kind, error) {
	for _, candidate := range membershipOrder(reg) {
		if !candidate.class.IsValid() {
			continue
		}
		ok, err := s.HasEdge(candidate.class, formula, store.EdgeAccessConstPosPerm)
		if err != nil {
			return Atom, fmt.Errorf("classifier: check membership in %v: %w", candidate.class, err)
		}
		if ok {
			return candidate.kind, nil
		}
	}

	return Atom, nil
}

// Operands returns formula's direct operand elements, reached by
// access-edges out of formula. Order follows the store's iteration order
// and is not semantically significant for conjunction/disjunction.
func Operands(s store.Store, formula store.Addr) ([]store.Addr, error) {
	it, err := s.Iterator3(formula, store.TypeAccessEdge, 0)
	if err != nil {
		return nil, fmt.Errorf("classifier: iterate operands of %v: %w", formula, err)
	}
	var operands []store.Addr
	for it.Next() {
		operands = append(operands, it.Get(2))
	}
	return operands, nil
}

// ImplicationParts returns the premise and conclusion of an
// implication/equivalence formula represented as an sc-edge.
func ImplicationParts(s store.Store, formula store.Addr) (premise, conclusion store.Addr, err error) {
	premise, conclusion, err = s.EdgeEndpoints(formula)
	if err != nil {
		return store.Invalid, store.Invalid, fmt.Errorf("classifier: implication parts of %v: %w", formula, err)
	}
	return premise, conclusion, nil
}

// QuantifierParts returns the bound variable and the body of a universal or
// existential formula: the variable is the operand of variable type, the
// body the other direct operand.
func QuantifierParts(s store.Store, reg *keynodes.Registry, formula store.Addr) (variable, body store.Addr, err error) {
	operands, err := Operands(s, formula)
	if err != nil {
		return store.Invalid, store.Invalid, err
	}
	if len(operands) < 2 {
		return store.Invalid, store.Invalid, fmt.Errorf("classifier: quantifier %v has %d operands, want 2", formula, len(operands))
	}
	// The bound variable is a variable-typed element; the body is whichever
	// operand is not.
	for _, op := range operands {
		t, terr := s.ElementType(op)
		if terr != nil {
			return store.Invalid, store.Invalid, terr
		}
		if t.IsVar() {
			variable = op
		} else {
			body = op
		}
	}
	if !variable.IsValid() || !body.IsValid() {
		return store.Invalid, store.Invalid, fmt.Errorf("classifier: quantifier %v missing variable or body operand", formula)
	}
	return variable, body, nil
}
