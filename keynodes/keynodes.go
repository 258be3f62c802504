// Package keynodes resolves the domain-specific relation and class
// identifiers the inference core depends on (rrel_1, the main-key relation,
// the content-matching marker, the success-solution class, and the
// connective markers) into an immutable registry, looked up once at
// process start rather than threaded through every call as string
// literals. This follows the "Global state — avoid" design note: the
// registry itself carries no mutable state and is built fresh by Resolve.
package keynodes

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/kilativ-dotcom/scl-machine/store"
)

// Identifiers are the system identifiers of every keynode the core needs
// resolved before an inference can run.
const (
	RRel1                    = "rrel_1"
	RRelMainKeyScElement     = "rrel_main_key_sc_element"
	ConceptTemplateWithLinks = "concept_template_with_links"
	ConceptSuccessSolution   = "concept_success_solution"

	ConceptNegation    = "concept_negation"
	ConceptConjunction = "concept_conjunction"
	ConceptDisjunction = "concept_disjunction"
	ConceptImplication = "concept_implication"
	ConceptEquivalence = "concept_equivalence"
	ConceptUniversal   = "concept_universal_quantifier"
	ConceptExistential = "concept_existential_quantifier"

	RRelIfConst       = "rrel_if"
	RRelThenConst     = "rrel_then"
	RRelQuantifierVar = "rrel_quantifier_variable"
)

var allIdentifiers = []string{
	RRel1,
	RRelMainKeyScElement,
	ConceptTemplateWithLinks,
	ConceptSuccessSolution,
	ConceptNegation,
	ConceptConjunction,
	ConceptDisjunction,
	ConceptImplication,
	ConceptEquivalence,
	ConceptUniversal,
	ConceptExistential,
	RRelIfConst,
	RRelThenConst,
	RRelQuantifierVar,
}

// Registry is an immutable table of resolved keynode addresses.
type Registry struct {
	addrs map[string]store.Addr
}

// Resolve looks up every required keynode identifier in s, accumulating all
// failures (rather than stopping at the first) so a misconfigured
// knowledge base is reported completely in one error.
func Resolve(s store.Store) (*Registry, error) {
	addrs := make(map[string]store.Addr, len(allIdentifiers))
	var errs *multierror.Error
	for _, idtf := range allIdentifiers {
		addr, found, err := s.ResolveIdentifier(idtf)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("resolve %q: %w", idtf, err))
			continue
		}
		if !found {
			errs = multierror.Append(errs, fmt.Errorf("resolve %q: %w", idtf, store.ErrItemNotFound))
			continue
		}
		addrs[idtf] = addr
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &Registry{addrs: addrs}, nil
}

// Addr returns the resolved address for a known identifier, or
// store.Invalid if it was not resolved (only possible for optional lookups
// performed outside Resolve).
func (r *Registry) Addr(identifier string) store.Addr {
	return r.addrs[identifier]
}

func (r *Registry) RRel1() store.Addr                     { return r.addrs[RRel1] }
func (r *Registry) RRelMainKeyScElement() store.Addr      { return r.addrs[RRelMainKeyScElement] }
func (r *Registry) ConceptTemplateWithLinks() store.Addr  { return r.addrs[ConceptTemplateWithLinks] }
func (r *Registry) ConceptSuccessSolution() store.Addr   { return r.addrs[ConceptSuccessSolution] }
func (r *Registry) ConceptNegation() store.Addr          { return r.addrs[ConceptNegation] }
func (r *Registry) ConceptConjunction() store.Addr       { return r.addrs[ConceptConjunction] }
func (r *Registry) ConceptDisjunction() store.Addr       { return r.addrs[ConceptDisjunction] }
func (r *Registry) ConceptImplication() store.Addr       { return r.addrs[ConceptImplication] }
func (r *Registry) ConceptEquivalence() store.Addr       { return r.addrs[ConceptEquivalence] }
func (r *Registry) ConceptUniversal() store.Addr         { return r.addrs[ConceptUniversal] }
func (r *Registry) ConceptExistential() store.Addr       { return r.addrs[ConceptExistential] }
func (r *Registry) RRelIfConst() store.Addr              { return r.addrs[RRelIfConst] }
func (r *Registry) RRelThenConst() store.Addr            { return r.addrs[RRelThenConst] }
func (r *Registry) RRelQuantifierVar() store.Addr        { return r.addrs[RRelQuantifierVar] }
