// Package solution implements the solution tree recorder (C7): it chains a
// record of which rule each successful generation applied, under which
// bindings, and tags the resulting chain with the inference's overall
// success or failure.
//
// Grounded on SolutionTreeGenerator.hpp under
// _examples/original_source/problem-solver/cxx/inferenceModule/generator/;
// the addNode/createSolution split and the solution/lastSolutionNode
// fields carry over directly.
package solution

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// Recorder builds a solution tree: a root node, a sequence of per-rule
// application nodes chained one after another, and per-node bindings
// linking each bound variable to the value it took.
type Recorder struct {
	s      store.Store
	reg    *keynodes.Registry
	logger hclog.Logger

	solution         store.Addr
	lastSolutionNode store.Addr
}

// New allocates a fresh solution root.
func New(s store.Store, reg *keynodes.Registry, logger hclog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	root, err := s.CreateNode(store.NodeConst)
	if err != nil {
		return nil, fmt.Errorf("solution: create solution root: %w", err)
	}
	return &Recorder{s: s, reg: reg, logger: logger, solution: root}, nil
}

// AddNode records that formula was successfully applied under bindings,
// chaining the new solution node after the previous one (or the solution
// root, for the first application).
func (r *Recorder) AddNode(formula store.Addr, bindings replacement.Table) error {
	node, err := r.s.CreateNode(store.NodeConst)
	if err != nil {
		return fmt.Errorf("solution: create solution node: %w", err)
	}
	if _, err := r.s.CreateEdge(store.EdgeAccessConstPosPerm, node, formula); err != nil {
		return fmt.Errorf("solution: link solution node to formula: %w", err)
	}

	prev := r.lastSolutionNode
	if !prev.IsValid() {
		prev = r.solution
	}
	if _, err := r.s.CreateEdge(store.EdgeAccessConstPosPerm, prev, node); err != nil {
		return fmt.Errorf("solution: chain solution node: %w", err)
	}
	r.lastSolutionNode = node

	for variable, values := range bindings {
		if len(values) == 0 {
			continue
		}
		valueEdge, err := r.s.CreateEdge(store.EdgeAccessConstPosPerm, node, values[0])
		if err != nil {
			return fmt.Errorf("solution: link solution node to bound value: %w", err)
		}
		if _, err := r.s.CreateEdge(store.EdgeAccessConstPosPerm, variable, valueEdge); err != nil {
			return fmt.Errorf("solution: tag binding with variable role: %w", err)
		}
	}

	r.logger.Debug("recorded solution node", "formula", formula, "node", node)
	return nil
}

// CreateSolution attaches the recorded chain to outputStructure and tags
// the whole solution as successful or failed, returning the solution
// root. Safe to call on an empty chain (no AddNode calls made).
func (r *Recorder) CreateSolution(outputStructure store.Addr, targetAchieved bool) (store.Addr, error) {
	if outputStructure.IsValid() {
		if _, err := r.s.CreateEdge(store.EdgeAccessConstPosPerm, r.solution, outputStructure); err != nil {
			return store.Invalid, fmt.Errorf("solution: attach output structure: %w", err)
		}
	}

	class := r.reg.ConceptSuccessSolution()
	if class.IsValid() {
		tag := store.EdgeAccessConstNegPerm
		if targetAchieved {
			tag = store.EdgeAccessConstPosPerm
		}
		if _, err := r.s.CreateEdge(tag, class, r.solution); err != nil {
			return store.Invalid, fmt.Errorf("solution: tag solution success: %w", err)
		}
	}

	r.logger.Debug("created solution", "root", r.solution, "achieved", targetAchieved)
	return r.solution, nil
}
