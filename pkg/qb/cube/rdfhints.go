package cube

import (
	"slices"

	"github.com/diwise/csvcube/pkg/rdf"
)

// Hint names the generated node that an arbitrary RDF fragment is attached to
type Hint int

const (
	HintDefaultNode Hint = iota
	HintComponent
	HintProperty
	HintUnit
	HintAttributeValue
	HintConceptScheme
	HintCatalogDataset
)

func (h Hint) String() string {
	switch h {
	case HintDefaultNode:
		return "DefaultNode"
	case HintComponent:
		return "Component"
	case HintProperty:
		return "Property"
	case HintUnit:
		return "Unit"
	case HintAttributeValue:
		return "AttributeValue"
	case HintConceptScheme:
		return "ConceptScheme"
	case HintCatalogDataset:
		return "CatalogDataset"
	}
	return "Unknown"
}

// ParseHint maps the textual form of a hint back to a Hint
func ParseHint(s string) (Hint, bool) {
	for h := HintDefaultNode; h <= HintCatalogDataset; h++ {
		if h.String() == s {
			return h, true
		}
	}
	return HintDefaultNode, false
}

// TripleFragment is a predicate/object pair supplied by the user that
// should be attached to one of the nodes generated for a definition
type TripleFragment struct {
	Predicate string
	Object    rdf.Term
	Hint      Hint
}

// ArbitraryRDFCarrier is implemented by everything that accepts user supplied RDF
type ArbitraryRDFCarrier interface {
	ArbitraryRDF() []TripleFragment
	// RDFHints returns the hints this kind of definition exposes and the one
	// that DefaultNode resolves to
	RDFHints() (permitted []Hint, defaultHint Hint)
}

// ResolveHint replaces DefaultNode with the carrier's own default
func ResolveHint(carrier ArbitraryRDFCarrier, h Hint) Hint {
	if h != HintDefaultNode {
		return h
	}
	_, def := carrier.RDFHints()
	return def
}

// PermitsHint reports whether the carrier exposes the given (resolved) hint
func PermitsHint(carrier ArbitraryRDFCarrier, h Hint) bool {
	permitted, _ := carrier.RDFHints()
	return slices.Contains(permitted, ResolveHint(carrier, h))
}
