package logic

import (
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// equivalenceNode is both directions of implication, conjoined.
type equivalenceNode struct {
	formula           store.Addr
	forward, backward *implicationNode
	deps              Deps
}

func (e *equivalenceNode) Check(binding store.Params) (Result, error) {
	return e.Find(fromParams(binding))
}

func (e *equivalenceNode) Compute(in Result) (Result, error) {
	fwd, err := e.forward.Compute(in)
	if err != nil {
		return falseResult(), err
	}
	if !fwd.Value {
		return falseResult(), nil
	}
	bwd, err := e.backward.Compute(Result{Value: true, Replacements: fwd.Replacements})
	if err != nil {
		return falseResult(), err
	}
	return Result{
		Value:        bwd.Value,
		IsGenerated:  fwd.IsGenerated || bwd.IsGenerated,
		Replacements: bwd.Replacements,
	}, nil
}

func (e *equivalenceNode) Find(replacements replacement.Table) (Result, error) {
	fwd, err := e.forward.Find(replacements)
	if err != nil {
		return falseResult(), err
	}
	if !fwd.Value {
		return falseResult(), nil
	}
	return e.backward.Find(fwd.Replacements)
}

func (e *equivalenceNode) Generate(replacements replacement.Table) (Result, error) {
	return e.Compute(Result{Value: true, Replacements: replacements})
}
