package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/classifier"
	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/store"
	"github.com/kilativ-dotcom/scl-machine/store/memstore"
)

func newRegistry(t *testing.T, s store.Store) *keynodes.Registry {
	t.Helper()
	ms := s.(*memstore.Store)
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
		ms.DeclareIdentifier(idtf, mustNode(t, ms))
	}
	reg, err := keynodes.Resolve(s)
	require.NoError(t, err)
	return reg
}

func mustNode(t *testing.T, s store.Store) store.Addr {
	t.Helper()
	addr, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	return addr
}

func TestClassifyAtomByDefault(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)
	atom, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)

	kind, err := classifier.Classify(s, reg, atom)
	require.NoError(t, err)
	require.Equal(t, classifier.Atom, kind)
}

func TestClassifyConjunctionByMembership(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)
	formula, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, reg.ConceptConjunction(), formula)
	require.NoError(t, err)

	kind, err := classifier.Classify(s, reg, formula)
	require.NoError(t, err)
	require.Equal(t, classifier.Conjunction, kind)
}

func TestClassifyImplicationByMembership(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)
	premise, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	conclusion, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	formula, err := s.CreateEdge(store.EdgeCommonConst, premise, conclusion)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, reg.ConceptImplication(), formula)
	require.NoError(t, err)

	kind, err := classifier.Classify(s, reg, formula)
	require.NoError(t, err)
	require.Equal(t, classifier.Implication, kind)

	gotPremise, gotConclusion, err := classifier.ImplicationParts(s, formula)
	require.NoError(t, err)
	require.Equal(t, premise, gotPremise)
	require.Equal(t, conclusion, gotConclusion)
}

func TestQuantifierPartsSplitsVariableFromBody(t *testing.T) {
	s := memstore.New()
	reg := newRegistry(t, s)
	formula, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, reg.ConceptUniversal(), formula)
	require.NoError(t, err)

	variable, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	body, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, formula, variable)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, formula, body)
	require.NoError(t, err)

	kind, err := classifier.Classify(s, reg, formula)
	require.NoError(t, err)
	require.Equal(t, classifier.Universal, kind)

	gotVar, gotBody, err := classifier.QuantifierParts(s, reg, formula)
	require.NoError(t, err)
	require.Equal(t, variable, gotVar)
	require.Equal(t, body, gotBody)
}
