package memstore

import (
	"fmt"
	"sort"

	"github.com/kilativ-dotcom/scl-machine/store"
)

// params is the in-memory Params implementation: a partial variable-to-value
// binding built incrementally via Add.
type params struct {
	bindings map[store.Addr]store.Addr
}

// NewParams returns an empty Params.
func (s *Store) NewParams() store.Params {
	return &params{bindings: make(map[store.Addr]store.Addr)}
}

func (p *params) Add(variable, value store.Addr) store.Params {
	p.bindings[variable] = value
	return p
}

func (p *params) Get(variable store.Addr) (store.Addr, bool) {
	v, ok := p.bindings[variable]
	return v, ok
}

func (p *params) Variables() []store.Addr {
	vs := make([]store.Addr, 0, len(p.bindings))
	for v := range p.bindings {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}

// template is a built atomic pattern: a single triple (from, edgeType, to)
// whose var-typed endpoints are free, matched against the knowledge base by
// Search/SmartSearch, or instantiated by GenerateByTemplate. This supports
// the leaf (atomic) formulas the formula classifier terminates on; a
// connective's own structure is walked by the classifier/logic packages one
// atomic template at a time.
type template struct {
	formula    store.Addr
	edgeType   store.ElementType
	from, to   store.Addr
	baseParams store.Params
}

func (t *template) Formula() store.Addr { return t.formula }

// BuildTemplate builds a Template from formula, which must itself be an
// edge (the atomic triple pattern) whose var-typed endpoints are free slots.
func (s *Store) BuildTemplate(formula store.Addr, p store.Params) (store.Template, error) {
	s.mu.Lock()
	e, ok := s.edges[formula]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("memstore: BuildTemplate: %w: %v is not an edge", store.ErrInvalidParams, formula)
	}
	if p == nil {
		p = s.NewParams()
	}
	return &template{formula: formula, edgeType: e.t, from: e.from, to: e.to, baseParams: p}, nil
}

type searchItem struct {
	bindings map[store.Addr]store.Addr
	touched  []store.Addr
}

func (si *searchItem) Get(variable store.Addr) (store.Addr, bool) {
	v, ok := si.bindings[variable]
	return v, ok
}
func (si *searchItem) Has(variable store.Addr) bool {
	_, ok := si.bindings[variable]
	return ok
}
func (si *searchItem) Size() int          { return len(si.touched) }
func (si *searchItem) At(i int) store.Addr { return si.touched[i] }

// matchCandidates finds every knowledge-base edge compatible with tmpl,
// producing one searchItem per match. Endpoints already bound in params
// (tmpl.baseParams merged with override) must match exactly; var-typed
// unbound endpoints bind freely; const-typed endpoints must equal the
// pattern's own literal value. Edges with a var-typed endpoint are pattern
// elements (such as tmpl's own formula edge), not facts, and never match.
func (s *Store) matchCandidates(tmpl *template) []*searchItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidateAddrs := make([]store.Addr, 0, len(s.edges))
	for ea := range s.edges {
		candidateAddrs = append(candidateAddrs, ea)
	}
	sort.Slice(candidateAddrs, func(i, j int) bool { return candidateAddrs[i] < candidateAddrs[j] })

	_, fromIsVar := s.slotKind(tmpl.from)
	_, toIsVar := s.slotKind(tmpl.to)

	var items []*searchItem
	for _, ea := range candidateAddrs {
		e := s.edges[ea]
		if e.t&tmpl.edgeType != tmpl.edgeType {
			continue
		}
		if _, v := s.slotKind(e.from); v {
			continue
		}
		if _, v := s.slotKind(e.to); v {
			continue
		}
		bindings := make(map[store.Addr]store.Addr, len(tmpl.baseParams.Variables())+2)
		for _, v := range tmpl.baseParams.Variables() {
			val, _ := tmpl.baseParams.Get(v)
			bindings[v] = val
		}

		if !fromIsVar {
			if e.from != tmpl.from {
				continue
			}
		} else if bound, ok := bindings[tmpl.from]; ok {
			if bound != e.from {
				continue
			}
		} else {
			bindings[tmpl.from] = e.from
		}

		if !toIsVar {
			if e.to != tmpl.to {
				continue
			}
		} else if bound, ok := bindings[tmpl.to]; ok {
			if bound != e.to {
				continue
			}
		} else {
			bindings[tmpl.to] = e.to
		}

		items = append(items, &searchItem{
			bindings: bindings,
			touched:  []store.Addr{e.from, ea, e.to},
		})
	}
	return items
}

func (s *Store) slotKind(a store.Addr) (store.ElementType, bool) {
	t, ok := s.types[a]
	if !ok {
		return 0, false
	}
	return t, t.IsVar()
}

// Search reports every match of tmpl, filtering touched elements through
// onFilter (when non-nil) before invoking onItem.
func (s *Store) Search(tmpl store.Template, onItem store.ItemCallback, onFilter store.FilterCallback) error {
	t, ok := tmpl.(*template)
	if !ok {
		return fmt.Errorf("memstore: Search: %w: foreign template", store.ErrInvalidParams)
	}
	for _, item := range s.matchCandidates(t) {
		if onFilter != nil {
			accepted := true
			for _, el := range item.touched {
				if !onFilter(el) {
					accepted = false
					break
				}
			}
			if !accepted {
				continue
			}
		}
		if onItem(item) == store.Stop {
			break
		}
	}
	return nil
}

// SmartSearch is memstore's single search strategy; it is equivalent to
// Search. A real sc-machine binding distinguishes the two by exploiting
// index structure SmartSearch can use that Search cannot — memstore has no
// such distinction to offer.
func (s *Store) SmartSearch(tmpl store.Template, onItem store.ItemCallback, onFilter store.FilterCallback) error {
	return s.Search(tmpl, onItem, onFilter)
}

type genResult struct {
	bindings map[store.Addr]store.Addr
	elements []store.Addr
}

func (g *genResult) Get(variable store.Addr) (store.Addr, bool) {
	v, ok := g.bindings[variable]
	return v, ok
}
func (g *genResult) Elements() []store.Addr { return g.elements }

// GenerateByTemplate instantiates tmpl: var-typed endpoints already bound
// in params reuse the bound value, unbound var-typed endpoints are
// allocated fresh nodes, and the pattern edge itself is created between the
// resolved endpoints.
func (s *Store) GenerateByTemplate(tmpl store.Template, p store.Params) (store.GenResult, error) {
	t, ok := tmpl.(*template)
	if !ok {
		return nil, fmt.Errorf("memstore: GenerateByTemplate: %w: foreign template", store.ErrInvalidParams)
	}
	if p == nil {
		p = s.NewParams()
	}

	bindings := make(map[store.Addr]store.Addr)
	for _, v := range t.baseParams.Variables() {
		val, _ := t.baseParams.Get(v)
		bindings[v] = val
	}
	for _, v := range p.Variables() {
		val, _ := p.Get(v)
		bindings[v] = val
	}

	resolve := func(slot store.Addr) (store.Addr, error) {
		kind, isVar := s.slotKind(slot)
		if !isVar {
			return slot, nil
		}
		if v, ok := bindings[slot]; ok {
			return v, nil
		}
		fresh, err := s.CreateNode(kind&^store.TypeVar | store.TypeConst)
		if err != nil {
			return store.Invalid, err
		}
		bindings[slot] = fresh
		return fresh, nil
	}

	from, err := resolve(t.from)
	if err != nil {
		return nil, fmt.Errorf("memstore: GenerateByTemplate: resolve from: %w", err)
	}
	to, err := resolve(t.to)
	if err != nil {
		return nil, fmt.Errorf("memstore: GenerateByTemplate: resolve to: %w", err)
	}

	ea, err := s.CreateEdge(t.edgeType, from, to)
	if err != nil {
		return nil, fmt.Errorf("memstore: GenerateByTemplate: create edge: %w", err)
	}

	return &genResult{bindings: bindings, elements: []store.Addr{from, ea, to}}, nil
}
