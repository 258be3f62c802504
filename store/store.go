// Package store defines the contract that the inference core requires from
// the underlying semantic graph knowledge base. The knowledge base itself
// (element allocation, iteration, template build/search primitives) is an
// external collaborator, out of scope for this module; store only describes
// the seam other packages program against.
package store

import "fmt"

// Addr is an opaque, totally ordered handle to a graph element (a node or an
// edge; edges are first-class and addressable just like nodes). The zero
// value is never a valid element.
type Addr uint64

// Invalid is the zero Addr, returned by lookups that find nothing.
const Invalid Addr = 0

// IsValid reports whether a is not the zero Addr.
func (a Addr) IsValid() bool {
	return a != Invalid
}

func (a Addr) String() string {
	return fmt.Sprintf("addr(%d)", uint64(a))
}

// ElementType is a bitset describing a graph element: node vs. edge,
// constant vs. variable, access-edge vs. common-edge, link vs. non-link,
// plus orientation and permanence flags. It mirrors ScType from the
// sc-machine store.
type ElementType uint32

const (
	TypeNode ElementType = 1 << iota
	TypeEdge
	TypeVar
	TypeConst
	TypeAccessEdge
	TypeCommonEdge
	TypeLink
	TypePositive
	TypeNegative
	TypePermanent
	TypeTemporary
)

func (t ElementType) has(flag ElementType) bool { return t&flag != 0 }

func (t ElementType) IsNode() bool       { return t.has(TypeNode) }
func (t ElementType) IsEdge() bool       { return t.has(TypeEdge) }
func (t ElementType) IsVar() bool        { return t.has(TypeVar) }
func (t ElementType) IsConst() bool      { return t.has(TypeConst) }
func (t ElementType) IsAccessEdge() bool { return t.has(TypeAccessEdge) }
func (t ElementType) IsCommonEdge() bool { return t.has(TypeCommonEdge) }
func (t ElementType) IsLink() bool       { return t.has(TypeLink) }
func (t ElementType) IsPositive() bool   { return t.has(TypePositive) }
func (t ElementType) IsPermanent() bool  { return t.has(TypePermanent) }

// Common concrete element types used throughout the core and its tests.
const (
	NodeConst              = TypeNode | TypeConst | TypePermanent
	NodeVar                = TypeNode | TypeVar | TypePermanent
	EdgeAccessConstPosPerm = TypeEdge | TypeAccessEdge | TypeConst | TypePositive | TypePermanent
	EdgeAccessConstNegPerm = TypeEdge | TypeAccessEdge | TypeConst | TypeNegative | TypePermanent
	EdgeCommonConst        = TypeEdge | TypeCommonEdge | TypeConst | TypePermanent
	LinkConst              = TypeNode | TypeLink | TypeConst | TypePermanent
)

// Params is an opaque partial variable-to-value binding, built incrementally
// and handed to the store's BuildTemplate/GenerateByTemplate calls. Its
// contents are never inspected by the core directly except through Get and
// Variables.
type Params interface {
	// Add binds variable to value, returning the receiver for chaining.
	Add(variable, value Addr) Params
	// Get returns the bound value for variable, if any.
	Get(variable Addr) (Addr, bool)
	// Variables returns the set of variables bound by this Params.
	Variables() []Addr
}

// Template is an opaque handle to a built subgraph pattern, produced by
// BuildTemplate from a formula element plus a partial Params.
type Template interface {
	// Formula returns the formula element this template was built from.
	Formula() Addr
}

// GenResult maps template variables to the elements the store generated (or
// reused, for variables that were already bound in Params) when a template
// was instantiated.
type GenResult interface {
	Get(variable Addr) (Addr, bool)
	// Elements returns every element touched by the generation (new and
	// reused), for publishing into an output structure.
	Elements() []Addr
}

// SearchItem is one matched embedding of a template in the knowledge base.
type SearchItem interface {
	// Get returns the concrete element bound to variable in this match.
	Get(variable Addr) (Addr, bool)
	// Has reports whether variable participated in this match at all.
	Has(variable Addr) bool
	// Size returns the number of elements touched by the match (for
	// content-identity / input-structure filtering).
	Size() int
	// At returns the i-th touched element.
	At(i int) Addr
}

// SearchRequest is the per-item verdict a search callback returns.
type SearchRequest int

const (
	Continue SearchRequest = iota
	Stop
)

// ItemCallback is invoked for every matched (and filter-accepted) item.
type ItemCallback func(SearchItem) SearchRequest

// FilterCallback decides whether an element is admissible before a match
// touching it is reported; used to implement input-structure restriction.
type FilterCallback func(Addr) bool

// Iterator3 iterates (source, edge, target) triples matching
// (root, edgeType, targetType).
type Iterator3 interface {
	Next() bool
	Get(i int) Addr // i in {0,1,2}: source, edge, target
}

// Iterator5 iterates quintuple patterns (a, edge1, b, edge2, c).
type Iterator5 interface {
	Next() bool
	Get(i int) Addr // i in {0..4}
}

// Store is the full set of host primitives the inference core consumes from
// the semantic graph knowledge base.
type Store interface {
	CreateNode(t ElementType) (Addr, error)
	CreateEdge(t ElementType, from, to Addr) (Addr, error)
	HasEdge(from, to Addr, t ElementType) (bool, error)
	// EdgeEndpoints returns an edge's source and target elements. Used to
	// read implication/equivalence formulas, which are represented as an
	// edge from premise to conclusion rather than as a node.
	EdgeEndpoints(edge Addr) (from, to Addr, err error)
	ResolveIdentifier(systemIdtf string) (Addr, bool, error)

	Iterator3(root Addr, edgeType, targetType ElementType) (Iterator3, error)
	Iterator5(a Addr, edgeType1 ElementType, b ElementType, edgeType2 ElementType, c ElementType) (Iterator5, error)

	ElementType(a Addr) (ElementType, error)

	NewParams() Params
	BuildTemplate(formula Addr, params Params) (Template, error)
	SmartSearch(tmpl Template, onItem ItemCallback, onFilter FilterCallback) error
	Search(tmpl Template, onItem ItemCallback, onFilter FilterCallback) error
	GenerateByTemplate(tmpl Template, params Params) (GenResult, error)

	GetLinkContent(link Addr) (string, error)
	SetLinkContent(link Addr, content string) error
}
