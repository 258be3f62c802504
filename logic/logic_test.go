package logic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/logic"
	"github.com/kilativ-dotcom/scl-machine/manager"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/store"
	"github.com/kilativ-dotcom/scl-machine/store/memstore"
)

func newRegistry(t *testing.T, s *memstore.Store) *keynodes.Registry {
	t.Helper()
	for _, idtf := range []string{
		keynodes.RRel1,
		keynodes.RRelMainKeyScElement,
		keynodes.ConceptTemplateWithLinks,
		keynodes.ConceptSuccessSolution,
		keynodes.ConceptNegation,
		keynodes.ConceptConjunction,
		keynodes.ConceptDisjunction,
		keynodes.ConceptImplication,
		keynodes.ConceptEquivalence,
		keynodes.ConceptUniversal,
		keynodes.ConceptExistential,
		keynodes.RRelIfConst,
		keynodes.RRelThenConst,
		keynodes.RRelQuantifierVar,
	} {
		n, err := s.CreateNode(store.NodeConst)
		require.NoError(t, err)
		s.DeclareIdentifier(idtf, n)
	}
	reg, err := keynodes.Resolve(s)
	require.NoError(t, err)
	return reg
}

// buildImplicationRule wires up: (x isA catClass) => (x isA animalClass),
// with x a free variable shared between premise and conclusion.
func buildImplicationRule(t *testing.T, s *memstore.Store, reg *keynodes.Registry) (formula, x, catClass, animalClass store.Addr) {
	t.Helper()
	x, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	catClass, err = s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	animalClass, err = s.CreateNode(store.NodeConst)
	require.NoError(t, err)

	premise, err := s.CreateEdge(store.EdgeAccessConstPosPerm, x, catClass)
	require.NoError(t, err)
	conclusion, err := s.CreateEdge(store.EdgeAccessConstPosPerm, x, animalClass)
	require.NoError(t, err)

	formula, err = s.CreateEdge(store.EdgeCommonConst, premise, conclusion)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, reg.ConceptImplication(), formula)
	require.NoError(t, err)

	return formula, x, catClass, animalClass
}

func TestImplicationGeneratesConclusionForExistingInstance(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)
	formula, _, catClass, animalClass := buildImplicationRule(t, s, reg)

	catInstance, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, catInstance, catClass)
	require.NoError(t, err)

	searcher := search.NewUnrestricted(s, reg)
	mgr := manager.New(s, searcher)
	output, err := logic.NewOutputStructure(s)
	require.NoError(t, err)

	deps := logic.Deps{
		Store:     s,
		Registry:  reg,
		Searcher:  searcher,
		Manager:   mgr,
		Output:    output,
		Arguments: []store.Addr{catInstance},
	}
	tree, err := logic.Build(formula, deps)
	require.NoError(t, err)

	initial := replacement.Table{}
	result, err := tree.Compute(logic.Result{Value: true, Replacements: initial})
	require.NoError(t, err)
	require.True(t, result.Value)
	require.True(t, result.IsGenerated)

	ok, err := s.HasEdge(catInstance, animalClass, store.EdgeAccessConstPosPerm)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestImplicationSkipsGenerationWhenConclusionAlreadyHolds(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)
	formula, _, catClass, animalClass := buildImplicationRule(t, s, reg)

	catInstance, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, catInstance, catClass)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, catInstance, animalClass)
	require.NoError(t, err)

	searcher := search.NewUnrestricted(s, reg)
	mgr := manager.New(s, searcher)
	output, err := logic.NewOutputStructure(s)
	require.NoError(t, err)

	deps := logic.Deps{
		Store:     s,
		Registry:  reg,
		Searcher:  searcher,
		Manager:   mgr,
		Output:    output,
		Arguments: []store.Addr{catInstance},
	}
	tree, err := logic.Build(formula, deps)
	require.NoError(t, err)

	result, err := tree.Compute(logic.Result{Value: true, Replacements: replacement.Table{}})
	require.NoError(t, err)
	require.True(t, result.Value)
	require.False(t, result.IsGenerated)
}

func TestImplicationVacuousWhenPremiseFalse(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)
	formula, _, _, animalClass := buildImplicationRule(t, s, reg)

	dogInstance, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)

	searcher := search.NewUnrestricted(s, reg)
	mgr := manager.New(s, searcher)
	output, err := logic.NewOutputStructure(s)
	require.NoError(t, err)

	deps := logic.Deps{
		Store:     s,
		Registry:  reg,
		Searcher:  searcher,
		Manager:   mgr,
		Output:    output,
		Arguments: []store.Addr{dogInstance},
	}
	tree, err := logic.Build(formula, deps)
	require.NoError(t, err)

	result, err := tree.Compute(logic.Result{Value: true, Replacements: replacement.Table{}})
	require.NoError(t, err)
	require.True(t, result.Value)
	require.False(t, result.IsGenerated)

	ok, err := s.HasEdge(dogInstance, animalClass, store.EdgeAccessConstPosPerm)
	require.NoError(t, err)
	require.False(t, ok)
}
