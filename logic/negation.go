package logic

import (
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// negationNode flips its body's truth value; it never generates, since
// generating a negated atom would contradict the negation itself.
type negationNode struct {
	formula store.Addr
	body    Node
	deps    Deps
}

func (n *negationNode) Check(binding store.Params) (Result, error) {
	return n.Find(fromParams(binding))
}

func (n *negationNode) Compute(in Result) (Result, error) {
	return n.Find(in.Replacements)
}

func (n *negationNode) Find(replacements replacement.Table) (Result, error) {
	r, err := n.body.Find(replacements)
	if err != nil {
		return falseResult(), err
	}
	if r.Value {
		return falseResult(), nil
	}
	return Result{Value: true, Replacements: replacements}, nil
}

// Generate is identical to Find: negation is never a generation target.
func (n *negationNode) Generate(replacements replacement.Table) (Result, error) {
	return n.Find(replacements)
}
