package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilativ-dotcom/scl-machine/inference"
	"github.com/kilativ-dotcom/scl-machine/manager"
	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/store"
)

func TestLoadKBRunsEndToEnd(t *testing.T) {
	kb, err := loadKB("testdata/cat.json")
	require.NoError(t, err)
	require.True(t, kb.formulasSet.IsValid())
	require.True(t, kb.argumentsSet.IsValid())
	require.True(t, kb.target.IsValid())

	searcher := search.NewUnrestricted(kb.store, kb.registry)
	mgr := manager.New(kb.store, searcher)
	driver := inference.New(kb.store, kb.registry, searcher, mgr, nil)

	solutionAddr, err := driver.ApplyInference(context.Background(), kb.target, kb.formulasSet, kb.argumentsSet, store.Invalid, inference.FlowConfig{
		GenerateSolutionTree:     true,
		SearchInKbWhenGenerating: true,
	})
	require.NoError(t, err)

	ok, err := kb.store.HasEdge(kb.registry.ConceptSuccessSolution(), solutionAddr, store.EdgeAccessConstPosPerm)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLoadKBRejectsMissingFile(t *testing.T) {
	_, err := loadKB("testdata/does-not-exist.json")
	require.Error(t, err)
}
