package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/store"
	"github.com/kilativ-dotcom/scl-machine/store/memstore"
)

// kbFile is the JSON shape a run invocation reads its knowledge base,
// rule set, arguments, and target from. Rules are restricted to the
// edge-represented implication form atomNode/implicationNode actually
// drive (premise -> conclusion): a kb file names elements, asserts
// ground facts, declares implication rules grouped into priority-ordered
// rule sets, and names the arguments and target formula for one
// inference run.
type kbFile struct {
	Elements  []elementSpec `json:"elements"`
	Links     []linkSpec    `json:"links"`
	Facts     []edgeSpec    `json:"facts"`
	Rules     []ruleSpec    `json:"rules"`
	RuleSets  [][]string    `json:"rule_sets"`
	Arguments []string      `json:"arguments"`
	Target    edgeSpec      `json:"target"`
}

type elementSpec struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "node_const" (default) or "node_var"
}

type linkSpec struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type edgeSpec struct {
	ID   string `json:"id,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"` // "access_pos" (default), "access_neg", "common"
}

type ruleSpec struct {
	ID         string   `json:"id"`
	Premise    edgeSpec `json:"premise"`
	Conclusion edgeSpec `json:"conclusion"`
}

// kb is a loaded knowledge base plus the addresses one ApplyInference
// call needs: the priority-ordered formulas set, the argument set, and
// the target formula.
type kb struct {
	store        *memstore.Store
	registry     *keynodes.Registry
	formulasSet  store.Addr
	argumentsSet store.Addr
	target       store.Addr
}

// loadKB parses path and builds the described elements, facts, rules, and
// rule sets into a fresh memstore.Store.
func loadKB(path string) (*kb, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kb file: %w", err)
	}
	var f kbFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse kb file: %w", err)
	}

	s := memstore.New()
	ids := make(map[string]store.Addr, len(f.Elements)+len(f.Links))

	for _, e := range f.Elements {
		t, err := elementType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", e.ID, err)
		}
		addr, err := s.CreateNode(t)
		if err != nil {
			return nil, err
		}
		ids[e.ID] = addr
	}
	for _, l := range f.Links {
		addr, err := s.CreateNode(store.LinkConst)
		if err != nil {
			return nil, err
		}
		if err := s.SetLinkContent(addr, l.Content); err != nil {
			return nil, err
		}
		ids[l.ID] = addr
	}

	resolveID := func(id string) (store.Addr, error) {
		addr, ok := ids[id]
		if !ok {
			return store.Invalid, fmt.Errorf("undeclared element %q", id)
		}
		return addr, nil
	}
	createEdge := func(spec edgeSpec) (store.Addr, error) {
		from, err := resolveID(spec.From)
		if err != nil {
			return store.Invalid, err
		}
		to, err := resolveID(spec.To)
		if err != nil {
			return store.Invalid, err
		}
		t, err := edgeType(spec.Type)
		if err != nil {
			return store.Invalid, err
		}
		addr, err := s.CreateEdge(t, from, to)
		if err != nil {
			return store.Invalid, err
		}
		if spec.ID != "" {
			ids[spec.ID] = addr
		}
		return addr, nil
	}

	for _, fact := range f.Facts {
		if _, err := createEdge(fact); err != nil {
			return nil, fmt.Errorf("fact: %w", err)
		}
	}

	declareMissingKeynodes(s)
	reg, err := keynodes.Resolve(s)
	if err != nil {
		return nil, fmt.Errorf("resolve keynodes: %w", err)
	}

	ruleNodes := make(map[string]store.Addr, len(f.Rules))
	for _, r := range f.Rules {
		premise, err := createEdge(r.Premise)
		if err != nil {
			return nil, fmt.Errorf("rule %q premise: %w", r.ID, err)
		}
		conclusion, err := createEdge(r.Conclusion)
		if err != nil {
			return nil, fmt.Errorf("rule %q conclusion: %w", r.ID, err)
		}
		formula, err := s.CreateEdge(store.EdgeCommonConst, premise, conclusion)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.ID, err)
		}
		if _, err := s.CreateEdge(store.EdgeAccessConstPosPerm, reg.ConceptImplication(), formula); err != nil {
			return nil, fmt.Errorf("rule %q: tag implication: %w", r.ID, err)
		}

		rule, err := s.CreateNode(store.NodeConst)
		if err != nil {
			return nil, err
		}
		if err := tagEdge(s, reg.RRelMainKeyScElement(), rule, formula); err != nil {
			return nil, fmt.Errorf("rule %q: tag main formula: %w", r.ID, err)
		}
		ruleNodes[r.ID] = rule
	}

	var formulasSet, previousSet store.Addr
	for i, ruleIDs := range f.RuleSets {
		ruleSet, err := s.CreateNode(store.NodeConst)
		if err != nil {
			return nil, err
		}
		for _, rid := range ruleIDs {
			rule, ok := ruleNodes[rid]
			if !ok {
				return nil, fmt.Errorf("rule set %d: unknown rule %q", i, rid)
			}
			if _, err := s.CreateEdge(store.EdgeAccessConstPosPerm, ruleSet, rule); err != nil {
				return nil, err
			}
		}
		if !formulasSet.IsValid() {
			formulasSet, err = s.CreateNode(store.NodeConst)
			if err != nil {
				return nil, err
			}
			if err := tagEdge(s, reg.RRel1(), formulasSet, ruleSet); err != nil {
				return nil, err
			}
		} else if err := tagEdge(s, reg.RRel1(), previousSet, ruleSet); err != nil {
			return nil, err
		}
		previousSet = ruleSet
	}
	if !formulasSet.IsValid() {
		formulasSet, err = s.CreateNode(store.NodeConst)
		if err != nil {
			return nil, err
		}
	}

	argumentsSet, err := s.CreateNode(store.NodeConst)
	if err != nil {
		return nil, err
	}
	for _, argID := range f.Arguments {
		arg, err := resolveID(argID)
		if err != nil {
			return nil, fmt.Errorf("argument: %w", err)
		}
		if _, err := s.CreateEdge(store.EdgeAccessConstPosPerm, argumentsSet, arg); err != nil {
			return nil, err
		}
	}

	target, err := createEdge(f.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	return &kb{store: s, registry: reg, formulasSet: formulasSet, argumentsSet: argumentsSet, target: target}, nil
}

func elementType(kind string) (store.ElementType, error) {
	switch kind {
	case "node_const", "":
		return store.NodeConst, nil
	case "node_var":
		return store.NodeVar, nil
	default:
		return 0, fmt.Errorf("unknown element type %q", kind)
	}
}

func edgeType(kind string) (store.ElementType, error) {
	switch kind {
	case "access_pos", "":
		return store.EdgeAccessConstPosPerm, nil
	case "access_neg":
		return store.EdgeAccessConstNegPerm, nil
	case "common":
		return store.EdgeCommonConst, nil
	default:
		return 0, fmt.Errorf("unknown edge type %q", kind)
	}
}

// tagEdge attaches relation to the access edge from->to, the sc-machine
// convention of labeling an edge by pointing a membership edge at the
// edge itself rather than at its target.
func tagEdge(s *memstore.Store, relation, from, to store.Addr) error {
	e, err := s.CreateEdge(store.EdgeAccessConstPosPerm, from, to)
	if err != nil {
		return err
	}
	_, err = s.CreateEdge(store.EdgeAccessConstPosPerm, relation, e)
	return err
}

// declareMissingKeynodes fills in any required keynode identifier the kb
// file didn't otherwise declare with a fresh, unused node, so
// keynodes.Resolve always succeeds: a kb file only needs to name the
// keynodes its own rules actually reference.
func declareMissingKeynodes(s *memstore.Store) {
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
		if _, ok, _ := s.ResolveIdentifier(idtf); ok {
			continue
		}
		n, err := s.CreateNode(store.NodeConst)
		if err != nil {
			continue
		}
		s.DeclareIdentifier(idtf, n)
	}
}
