package inference_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/inference"
	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/manager"
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

// link tags the access edge from--to under relation via a membership edge
// from relation to the edge itself, the sc-machine convention for
// attaching a role relation to a specific edge.
func link(t *testing.T, s *memstore.Store, relation, from, to store.Addr) store.Addr {
	t.Helper()
	e, err := s.CreateEdge(store.EdgeAccessConstPosPerm, from, to)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, relation, e)
	require.NoError(t, err)
	return e
}

func TestApplyInferenceGeneratesConclusionAndAchievesTarget(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)

	x, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	catClass, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	animalClass, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)

	premise, err := s.CreateEdge(store.EdgeAccessConstPosPerm, x, catClass)
	require.NoError(t, err)
	conclusion, err := s.CreateEdge(store.EdgeAccessConstPosPerm, x, animalClass)
	require.NoError(t, err)
	formula, err := s.CreateEdge(store.EdgeCommonConst, premise, conclusion)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, reg.ConceptImplication(), formula)
	require.NoError(t, err)

	rule, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	link(t, s, reg.RRelMainKeyScElement(), rule, formula)

	ruleSet, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, ruleSet, rule)
	require.NoError(t, err)

	formulasSet, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	link(t, s, reg.RRel1(), formulasSet, ruleSet)

	catInstance, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, catInstance, catClass)
	require.NoError(t, err)

	argumentsSet, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, argumentsSet, catInstance)
	require.NoError(t, err)

	searcher := search.NewUnrestricted(s, reg)
	mgr := manager.New(s, searcher)
	driver := inference.New(s, reg, searcher, mgr, nil)

	solutionAddr, err := driver.ApplyInference(context.Background(), conclusion, formulasSet, argumentsSet, store.Invalid, inference.FlowConfig{
		GenerateSolutionTree:     true,
		SearchInKbWhenGenerating: true,
	})
	require.NoError(t, err)
	require.True(t, solutionAddr.IsValid())

	ok, err := s.HasEdge(catInstance, animalClass, store.EdgeAccessConstPosPerm)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.HasEdge(reg.ConceptSuccessSolution(), solutionAddr, store.EdgeAccessConstPosPerm)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestApplyInferenceReturnsFailureWhenNoRuleFires(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)

	x, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	catClass, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	animalClass, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)

	premise, err := s.CreateEdge(store.EdgeAccessConstPosPerm, x, catClass)
	require.NoError(t, err)
	conclusion, err := s.CreateEdge(store.EdgeAccessConstPosPerm, x, animalClass)
	require.NoError(t, err)
	formula, err := s.CreateEdge(store.EdgeCommonConst, premise, conclusion)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, reg.ConceptImplication(), formula)
	require.NoError(t, err)

	rule, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	link(t, s, reg.RRelMainKeyScElement(), rule, formula)

	ruleSet, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, ruleSet, rule)
	require.NoError(t, err)

	formulasSet, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	link(t, s, reg.RRel1(), formulasSet, ruleSet)

	// dogInstance is not a cat, so the premise never matches.
	dogInstance, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)

	argumentsSet, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, argumentsSet, dogInstance)
	require.NoError(t, err)

	searcher := search.NewUnrestricted(s, reg)
	mgr := manager.New(s, searcher)
	driver := inference.New(s, reg, searcher, mgr, nil)

	solutionAddr, err := driver.ApplyInference(context.Background(), conclusion, formulasSet, argumentsSet, store.Invalid, inference.FlowConfig{
		GenerateSolutionTree:     true,
		SearchInKbWhenGenerating: true,
	})
	require.NoError(t, err)
	require.True(t, solutionAddr.IsValid())

	ok, err := s.HasEdge(reg.ConceptSuccessSolution(), solutionAddr, store.EdgeAccessConstNegPerm)
	require.NoError(t, err)
	require.True(t, ok)
}
