package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilativ-dotcom/scl-machine/inference"
	"github.com/kilativ-dotcom/scl-machine/internal/config"
	"github.com/kilativ-dotcom/scl-machine/internal/telemetry"
	"github.com/kilativ-dotcom/scl-machine/manager"
	"github.com/kilativ-dotcom/scl-machine/search"
	"github.com/kilativ-dotcom/scl-machine/store"
)

var runCmd = &cobra.Command{
	Use:   "run <kb-file>",
	Short: "Run one forward-chaining inference over a JSON knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runE,
}

func runE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger := telemetry.New(telemetry.Options{Name: "scl-infer", Level: cfg.LogLevel})

	kb, err := loadKB(args[0])
	if err != nil {
		return fmt.Errorf("load kb: %w", err)
	}

	searcher, err := buildSearcher(cfg.SearcherPolicy, kb, cfg.LRUCacheSize)
	if err != nil {
		return fmt.Errorf("build searcher: %w", err)
	}
	mgr := manager.New(kb.store, searcher)
	driver := inference.New(kb.store, kb.registry, searcher, mgr, logger)

	solutionAddr, err := driver.ApplyInference(cmd.Context(), kb.target, kb.formulasSet, kb.argumentsSet, store.Invalid, cfg.Flow)
	if err != nil {
		return fmt.Errorf("apply inference: %w", err)
	}

	achieved, err := kb.store.HasEdge(kb.registry.ConceptSuccessSolution(), solutionAddr, store.EdgeAccessConstPosPerm)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "solution %v: target achieved = %v\n", solutionAddr, achieved)
	return printTrace(cmd, kb.store, solutionAddr, "  ")
}

func buildSearcher(policy config.SearcherPolicy, kb *kb, cacheSize int) (search.Searcher, error) {
	switch policy {
	case config.PolicyInStructures:
		return search.NewInStructures(kb.store, kb.registry, cacheSize)
	case config.PolicyAccessEdgeOnly:
		return search.NewAccessEdgeOnly(kb.store, kb.registry), nil
	case config.PolicyUnrestricted, "":
		return search.NewUnrestricted(kb.store, kb.registry), nil
	default:
		return nil, fmt.Errorf("unknown searcher policy %q", policy)
	}
}

// printTrace walks root's direct access-edge members one level deep,
// printing the solution tree's immediate structure: the first solution
// node AddNode chained onto the root, plus the output structure
// CreateSolution attached. Later solution nodes hang off their predecessor
// rather than the root and are not printed.
func printTrace(cmd *cobra.Command, s store.Store, root store.Addr, indent string) error {
	if !root.IsValid() {
		return nil
	}
	it, err := s.Iterator3(root, store.TypeAccessEdge, 0)
	if err != nil {
		return err
	}
	for it.Next() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s- %v\n", indent, it.Get(2))
	}
	return nil
}
