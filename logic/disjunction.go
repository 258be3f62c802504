package logic

import (
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// disjunctionNode is true iff any child is true; its replacements are the
// union of its children's.
type disjunctionNode struct {
	formula  store.Addr
	children []Node
	deps     Deps
}

func (d *disjunctionNode) Check(binding store.Params) (Result, error) {
	return d.Find(fromParams(binding))
}

func (d *disjunctionNode) Compute(in Result) (Result, error) {
	return d.Find(in.Replacements)
}

func (d *disjunctionNode) Find(replacements replacement.Table) (Result, error) {
	union := make(replacement.Table)
	any := false
	for _, child := range d.children {
		r, err := child.Find(replacements)
		if err != nil {
			return falseResult(), err
		}
		if !r.Value {
			continue
		}
		any = true
		union = replacement.Unite(union, r.Replacements)
	}
	return Result{Value: any, Replacements: union}, nil
}

// Generate tries each child in turn, generating the first one that
// succeeds; a disjunctive conclusion only needs one disjunct satisfied.
func (d *disjunctionNode) Generate(replacements replacement.Table) (Result, error) {
	for _, child := range d.children {
		r, err := child.Generate(replacements)
		if err != nil {
			return falseResult(), err
		}
		if r.Value {
			return r, nil
		}
	}
	return falseResult(), nil
}
