package search

import (
	"github.com/kilativ-dotcom/scl-machine/keynodes"
	"github.com/kilativ-dotcom/scl-machine/replacement"
	"github.com/kilativ-dotcom/scl-machine/store"
)

// Unrestricted accepts any embedding found in the knowledge base, with no
// input-structure filtering.
type Unrestricted struct {
	base
}

// NewUnrestricted returns a Searcher with no membership filtering.
func NewUnrestricted(s store.Store, reg *keynodes.Registry) *Unrestricted {
	u := &Unrestricted{base: newBase(s, reg)}
	u.matchOne = func(tmpl store.Template, onItem store.ItemCallback) error {
		return u.s.Search(tmpl, onItem, nil)
	}
	return u
}

func (u *Unrestricted) Search(formula store.Addr, bindings []store.Params, variables []store.Addr) (replacement.Table, error) {
	return u.search(formula, bindings, variables)
}
