package logic

import (
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// conjunctionNode is true iff every child is true; its replacements are
// the intersection of its children's.
type conjunctionNode struct {
	formula  store.Addr
	children []Node
	deps     Deps
}

func (c *conjunctionNode) Check(binding store.Params) (Result, error) {
	return c.Find(fromParams(binding))
}

func (c *conjunctionNode) Compute(in Result) (Result, error) {
	return c.Find(in.Replacements)
}

// Find short-circuits on any false child; otherwise intersects every
// child's replacements.
func (c *conjunctionNode) Find(replacements replacement.Table) (Result, error) {
	acc := replacements
	first := true
	for _, child := range c.children {
		r, err := child.Find(acc)
		if err != nil {
			return falseResult(), err
		}
		if !r.Value {
			return falseResult(), nil
		}
		if first {
			acc = r.Replacements
			first = false
			continue
		}
		acc = replacement.Intersect(acc, r.Replacements)
	}
	return Result{Value: true, Replacements: acc}, nil
}

// Generate threads replacements child-to-child, reordering so any child
// that would need to generate a currently-false atom runs after the
// find-only children, per spec.md §9.
func (c *conjunctionNode) Generate(replacements replacement.Table) (Result, error) {
	ordered, err := c.reorder(replacements)
	if err != nil {
		return falseResult(), err
	}

	acc := replacements
	anyGenerated := false
	for _, child := range ordered {
		r, err := child.Generate(acc)
		if err != nil {
			return falseResult(), err
		}
		if !r.Value {
			return falseResult(), nil
		}
		anyGenerated = anyGenerated || r.IsGenerated
		acc = r.Replacements
	}
	return Result{Value: true, IsGenerated: anyGenerated, Replacements: acc}, nil
}

// reorder places children whose find-check already succeeds first, so
// children that would have to generate run last and benefit from the
// replacements the find-only children narrowed down.
func (c *conjunctionNode) reorder(replacements replacement.Table) ([]Node, error) {
	var findOnly, generators []Node
	for _, child := range c.children {
		r, err := child.Find(replacements)
		if err != nil {
			return nil, err
		}
		if r.Value {
			findOnly = append(findOnly, child)
		} else {
			generators = append(generators, child)
		}
	}
	return append(findOnly, generators...), nil
}
