package manager_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/manager"
	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/store"
	"github.com/kilativ-dotcom/scl-machine/store/memstore"
)

func registryFixture(t *testing.T) (*memstore.Store, *keynodes.Registry) {
	t.Helper()
	s := memstore.New()
	for _, idtf := range []string{
		keynodes.RRel1, keynodes.RRelMainKeyScElement, keynodes.ConceptTemplateWithLinks,
		keynodes.ConceptSuccessSolution, keynodes.ConceptNegation, keynodes.ConceptConjunction,
		keynodes.ConceptDisjunction, keynodes.ConceptImplication, keynodes.ConceptEquivalence,
		keynodes.ConceptUniversal, keynodes.ConceptExistential, keynodes.RRelIfConst,
		keynodes.RRelThenConst, keynodes.RRelQuantifierVar,
	} {
		n, err := s.CreateNode(store.NodeConst)
		require.NoError(t, err)
		s.DeclareIdentifier(idtf, n)
	}
	reg, err := keynodes.Resolve(s)
	require.NoError(t, err)
	return s, reg
}

func TestCreateTemplateParamsBuildsCartesianProduct(t *testing.T) {
	s, reg := registryFixture(t)
	variable, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	isA, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	formula, err := s.CreateEdge(store.EdgeAccessConstPosPerm, variable, isA)
	require.NoError(t, err)

	arg1, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	arg2, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)

	searcher := search.NewUnrestricted(s, reg)
	m := manager.New(s, searcher)
	params, err := m.CreateTemplateParams(formula, []store.Addr{arg1, arg2})
	require.NoError(t, err)
	require.Len(t, params, 2)

	var got []store.Addr
	for _, p := range params {
		v, ok := p.Get(variable)
		require.True(t, ok)
		got = append(got, v)
	}
	require.ElementsMatch(t, []store.Addr{arg1, arg2}, got)
}

func TestCreateTemplateParamsEmptyWhenNoCompatibleArgument(t *testing.T) {
	s, reg := registryFixture(t)
	variable, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	isA, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	formula, err := s.CreateEdge(store.EdgeAccessConstPosPerm, variable, isA)
	require.NoError(t, err)

	a, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	b, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	edgeArg, err := s.CreateEdge(store.EdgeCommonConst, a, b)
	require.NoError(t, err)

	searcher := search.NewUnrestricted(s, reg)
	m := manager.New(s, searcher)
	params, err := m.CreateTemplateParams(formula, []store.Addr{edgeArg})
	require.NoError(t, err)
	require.Empty(t, params)
}
