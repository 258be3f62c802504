package memstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/store"
	"github.com/kilativ-dotcom/scl-machine/store/memstore"
)

func TestCreateNodeRejectsEdgeType(t *testing.T) {
	s := memstore.New()
	_, err := s.CreateNode(store.EdgeAccessConstPosPerm)
	require.ErrorIs(t, err, store.ErrInvalidParams)
}

func TestResolveIdentifierRoundTrip(t *testing.T) {
	s := memstore.New()
	n, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	s.DeclareIdentifier("concept_foo", n)

	got, found, err := s.ResolveIdentifier("concept_foo")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, n, got)
}

func TestSearchBindsFreeVariable(t *testing.T) {
	s := memstore.New()
	variable, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	relTarget, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	formula, err := s.CreateEdge(store.EdgeAccessConstPosPerm, variable, relTarget)
	require.NoError(t, err)

	cat, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, cat, relTarget)
	require.NoError(t, err)

	tmpl, err := s.BuildTemplate(formula, nil)
	require.NoError(t, err)

	var found store.Addr
	err = s.Search(tmpl, func(item store.SearchItem) store.SearchRequest {
		v, ok := item.Get(variable)
		require.True(t, ok)
		found = v
		return store.Stop
	}, nil)
	require.NoError(t, err)
	require.Equal(t, cat, found)
}

func TestGenerateByTemplateCreatesFreshNode(t *testing.T) {
	s := memstore.New()
	variable, err := s.CreateNode(store.NodeVar)
	require.NoError(t, err)
	target, err := s.CreateNode(store.NodeConst)
	require.NoError(t, err)
	formula, err := s.CreateEdge(store.EdgeAccessConstPosPerm, variable, target)
	require.NoError(t, err)

	tmpl, err := s.BuildTemplate(formula, nil)
	require.NoError(t, err)
	result, err := s.GenerateByTemplate(tmpl, nil)
	require.NoError(t, err)

	generated, ok := result.Get(variable)
	require.True(t, ok)
	require.True(t, generated.IsValid())
	require.NotEqual(t, variable, generated)
	require.Len(t, result.Elements(), 3)
}

func TestLinkContentRoundTrip(t *testing.T) {
	s := memstore.New()
	link, err := s.CreateNode(store.LinkConst)
	require.NoError(t, err)
	require.NoError(t, s.SetLinkContent(link, "hello"))
	got, err := s.GetLinkContent(link)
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}
