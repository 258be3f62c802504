package store

import "errors"

// Sentinel error kinds propagated to inference callers, per the four error
// kinds named by the specification: InvalidParams, ItemNotFound,
// InvalidState, TemplateNotBuilt.
var (
	// ErrInvalidParams marks malformed input: an LRU cache constructed with
	// size 0, or a binding that references an unknown variable.
	ErrInvalidParams = errors.New("store: invalid params")

	// ErrItemNotFound marks a lookup that found nothing where the caller
	// requires at least one result, e.g. no priority-ordered rule sets.
	ErrItemNotFound = errors.New("store: item not found")

	// ErrInvalidState marks a broken invariant: after a successful
	// generation, a formula variable has no binding in either the
	// generation result or the input parameters.
	ErrInvalidState = errors.New("store: invalid state")

	// ErrTemplateNotBuilt marks a store refusal to construct a template
	// from a formula plus binding (malformed pattern or incompatible
	// variable typing).
	ErrTemplateNotBuilt = errors.New("store: template not built")
)
