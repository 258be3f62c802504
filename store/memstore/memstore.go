// Package memstore is a complete in-memory reference implementation of
// store.Store, used by every other package's test suite so the inference
// core is independently testable without a live sc-machine. It is never
// imported by the core packages themselves.
//
// Grounded on the adjacency-map instance graph conventions of gonum/graph
// and the in-memory fixture graphs under other_examples/, adapted to the
// node/edge-are-both-addressable model of store.Store.
package memstore

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kilativ-dotcom/scl-machine/store"
)

type edge struct {
	t        store.ElementType
	from, to store.Addr
}

// Store is an in-memory semantic graph keyed by sequentially allocated
// addresses.
type Store struct {
	mu sync.Mutex

	nextAddr store.Addr
	types    map[store.Addr]store.ElementType
	edges    map[store.Addr]edge
	links    map[store.Addr]string
	idtfs    map[string]store.Addr

	// outEdges[from] lists edges whose source is from, for Iterator3.
	outEdges map[store.Addr][]store.Addr
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		types:    make(map[store.Addr]store.ElementType),
		edges:    make(map[store.Addr]edge),
		links:    make(map[store.Addr]string),
		idtfs:    make(map[string]store.Addr),
		outEdges: make(map[store.Addr][]store.Addr),
	}
}

func (s *Store) alloc() store.Addr {
	s.nextAddr++
	return s.nextAddr
}

// CreateNode allocates a new node of type t.
func (s *Store) CreateNode(t store.ElementType) (store.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.IsNode() {
		return store.Invalid, fmt.Errorf("memstore: CreateNode: %w: type %v is not a node type", store.ErrInvalidParams, t)
	}
	a := s.alloc()
	s.types[a] = t
	return a, nil
}

// CreateEdge allocates a new edge of type t from from to to.
func (s *Store) CreateEdge(t store.ElementType, from, to store.Addr) (store.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.IsEdge() {
		return store.Invalid, fmt.Errorf("memstore: CreateEdge: %w: type %v is not an edge type", store.ErrInvalidParams, t)
	}
	if !from.IsValid() || !to.IsValid() {
		return store.Invalid, fmt.Errorf("memstore: CreateEdge: %w: invalid endpoint", store.ErrInvalidParams)
	}
	a := s.alloc()
	s.types[a] = t
	s.edges[a] = edge{t: t, from: from, to: to}
	s.outEdges[from] = append(s.outEdges[from], a)
	return a, nil
}

// EdgeEndpoints returns an edge's source and target.
func (s *Store) EdgeEndpoints(addr store.Addr) (store.Addr, store.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.edges[addr]
	if !ok {
		return store.Invalid, store.Invalid, fmt.Errorf("memstore: EdgeEndpoints: %w: %v is not an edge", store.ErrItemNotFound, addr)
	}
	return e.from, e.to, nil
}

// HasEdge reports whether an edge of type t exists from from to to.
func (s *Store) HasEdge(from, to store.Addr, t store.ElementType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ea := range s.outEdges[from] {
		e := s.edges[ea]
		if e.to == to && e.t&t == t {
			return true, nil
		}
	}
	return false, nil
}

// ResolveIdentifier looks up a node previously named via DeclareIdentifier.
func (s *Store) ResolveIdentifier(systemIdtf string) (store.Addr, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.idtfs[systemIdtf]
	return a, ok, nil
}

// DeclareIdentifier names addr with systemIdtf, for test fixtures to wire
// up keynodes.Registry lookups. Test-only; not part of store.Store.
func (s *Store) DeclareIdentifier(systemIdtf string, addr store.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idtfs[systemIdtf] = addr
}

// NewSyntheticIdentifier allocates a node and names it with a
// uuid-suffixed system identifier, for test fixtures that need unique,
// human-traceable names without colliding across test runs. No package in
// this module calls it.
func (s *Store) NewSyntheticIdentifier(prefix string) (store.Addr, string, error) {
	a, err := s.CreateNode(store.NodeConst)
	if err != nil {
		return store.Invalid, "", err
	}
	idtf := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
	s.DeclareIdentifier(idtf, a)
	return a, idtf, nil
}

// ElementType returns a's type.
func (s *Store) ElementType(a store.Addr) (store.ElementType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.types[a]
	if !ok {
		return 0, fmt.Errorf("memstore: ElementType: %w: %v", store.ErrItemNotFound, a)
	}
	return t, nil
}

type iter3 struct {
	rows [][3]store.Addr
	i    int
}

func (it *iter3) Next() bool {
	if it.i+1 >= len(it.rows) {
		it.i = len(it.rows)
		return false
	}
	it.i++
	return true
}

func (it *iter3) Get(i int) store.Addr { return it.rows[it.i][i] }

// Iterator3 enumerates (root, edge, target) triples where edge matches
// edgeType and target matches targetType. root == store.Invalid matches
// any source; edgeType/targetType == 0 (no bits required) matches any
// edge/target kind, since a target element belongs to exactly one of
// TypeNode/TypeEdge and a caller wanting either must not AND-require both.
func (s *Store) Iterator3(root store.Addr, edgeType, targetType store.ElementType) (store.Iterator3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := &iter3{i: -1}
	visit := func(from store.Addr) {
		for _, ea := range s.outEdges[from] {
			e := s.edges[ea]
			if edgeType != 0 && e.t&edgeType != edgeType {
				continue
			}
			tt, ok := s.types[e.to]
			if !ok {
				continue
			}
			if targetType != 0 && tt&targetType != targetType {
				continue
			}
			it.rows = append(it.rows, [3]store.Addr{e.from, ea, e.to})
		}
	}
	if root.IsValid() {
		visit(root)
	} else {
		for from := range s.outEdges {
			visit(from)
		}
	}
	return it, nil
}

type iter5 struct {
	rows [][5]store.Addr
	i    int
}

func (it *iter5) Next() bool {
	if it.i+1 >= len(it.rows) {
		it.i = len(it.rows)
		return false
	}
	it.i++
	return true
}

func (it *iter5) Get(i int) store.Addr { return it.rows[it.i][i] }

// Iterator5 enumerates 5-tuples (a, edge1, b, edge2, c) formed by chaining
// two Iterator3 steps: a -edge1-> b -edge2-> c.
func (s *Store) Iterator5(a store.Addr, edgeType1 store.ElementType, b store.ElementType, edgeType2 store.ElementType, c store.ElementType) (store.Iterator5, error) {
	first, err := s.Iterator3(a, edgeType1, b)
	if err != nil {
		return nil, err
	}
	it := &iter5{i: -1}
	for first.Next() {
		mid := first.Get(2)
		second, err := s.Iterator3(mid, edgeType2, c)
		if err != nil {
			return nil, err
		}
		for second.Next() {
			it.rows = append(it.rows, [5]store.Addr{first.Get(0), first.Get(1), second.Get(0), second.Get(1), second.Get(2)})
		}
	}
	return it, nil
}

// GetLinkContent returns the string content of a link node.
func (s *Store) GetLinkContent(link store.Addr) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.links[link]
	if !ok {
		return "", fmt.Errorf("memstore: GetLinkContent: %w: %v", store.ErrItemNotFound, link)
	}
	return c, nil
}

// SetLinkContent sets the string content of a link node.
func (s *Store) SetLinkContent(link store.Addr, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.types[link]
	if !ok || !t.IsLink() {
		return fmt.Errorf("memstore: SetLinkContent: %w: %v is not a link", store.ErrInvalidParams, link)
	}
	s.links[link] = content
	return nil
}
