package logic

import (
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// implicationNode is the only node whose Compute departs from Find: it is
// the point where forward-chaining generation actually happens.
type implicationNode struct {
	formula    store.Addr
	premise    Node
	conclusion Node
	deps       Deps
}

func (i *implicationNode) Check(binding store.Params) (Result, error) {
	return i.Find(fromParams(binding))
}

// Compute finds the premise and, if it holds, generates the conclusion
// under the premise's replacements. If the premise is false, the rule is
// vacuously satisfied without generation.
func (i *implicationNode) Compute(in Result) (Result, error) {
	premiseResult, err := i.premise.Find(in.Replacements)
	if err != nil {
		return falseResult(), err
	}
	if !premiseResult.Value {
		return Result{Value: true, Replacements: in.Replacements}, nil
	}
	concl, err := i.conclusion.Generate(premiseResult.Replacements)
	if err != nil {
		return falseResult(), err
	}
	return Result{Value: concl.Value, IsGenerated: concl.IsGenerated, Replacements: concl.Replacements}, nil
}

// Find is a read-only variant: true vacuously if the premise is false,
// otherwise true iff the conclusion already holds (never generates it).
func (i *implicationNode) Find(replacements replacement.Table) (Result, error) {
	premiseResult, err := i.premise.Find(replacements)
	if err != nil {
		return falseResult(), err
	}
	if !premiseResult.Value {
		return Result{Value: true, Replacements: replacements}, nil
	}
	return i.conclusion.Find(premiseResult.Replacements)
}

func (i *implicationNode) Generate(replacements replacement.Table) (Result, error) {
	return i.Compute(Result{Value: true, Replacements: replacements})
}
