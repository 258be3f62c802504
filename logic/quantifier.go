package logic

import (
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// quantifierNode enumerates bindings of its bound variable over the rule's
// argument vector, restricted to arguments type-consistent with the
// variable, delegating truth of each binding to its body.
type quantifierNode struct {
	formula   store.Addr
	variable  store.Addr
	body      Node
	universal bool
	deps      Deps
}

func (q *quantifierNode) Check(binding store.Params) (Result, error) {
	return q.Find(fromParams(binding))
}

func (q *quantifierNode) Compute(in Result) (Result, error) {
	return q.evaluate(in.Replacements, func(n Node, t replacement.Table) (Result, error) { return n.Find(t) })
}

func (q *quantifierNode) Find(replacements replacement.Table) (Result, error) {
	return q.evaluate(replacements, func(n Node, t replacement.Table) (Result, error) { return n.Find(t) })
}

func (q *quantifierNode) Generate(replacements replacement.Table) (Result, error) {
	return q.evaluate(replacements, func(n Node, t replacement.Table) (Result, error) { return n.Generate(t) })
}

func (q *quantifierNode) evaluate(replacements replacement.Table, step func(Node, replacement.Table) (Result, error)) (Result, error) {
	domain, err := q.domain()
	if err != nil {
		return falseResult(), err
	}
	if len(domain) == 0 {
		return Result{Value: q.universal, Replacements: replacements}, nil
	}

	union := make(replacement.Table)
	anyGenerated := false
	satisfied := 0
	for _, value := range domain {
		bound := bindVariable(replacements, q.variable, value)
		r, err := step(q.body, bound)
		if err != nil {
			return falseResult(), err
		}
		if r.Value {
			satisfied++
			anyGenerated = anyGenerated || r.IsGenerated
			union = replacement.Unite(union, r.Replacements)
			if !q.universal {
				return Result{Value: true, IsGenerated: r.IsGenerated, Replacements: r.Replacements}, nil
			}
		} else if q.universal {
			return falseResult(), nil
		}
	}
	if q.universal {
		return Result{Value: true, IsGenerated: anyGenerated, Replacements: union}, nil
	}
	return Result{Value: satisfied > 0, Replacements: union}, nil
}

// domain returns the rule's arguments restricted to those type-consistent
// with the bound variable.
func (q *quantifierNode) domain() ([]store.Addr, error) {
	varType, err := q.deps.Store.ElementType(q.variable)
	if err != nil {
		return nil, err
	}
	bare := varType &^ (store.TypeVar | store.TypeConst)

	var out []store.Addr
	for _, arg := range q.deps.Arguments {
		argType, err := q.deps.Store.ElementType(arg)
		if err != nil {
			return nil, err
		}
		argBare := argType &^ (store.TypeVar | store.TypeConst)
		if bare.IsNode() == argBare.IsNode() && bare.IsEdge() == argBare.IsEdge() {
			out = append(out, arg)
		}
	}
	return out, nil
}
