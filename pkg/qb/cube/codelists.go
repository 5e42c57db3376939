package cube

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diwise/csvcube/pkg/identifiers"
	"github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
	"github.com/yosida95/uritemplate/v3"
)

// CodeList is one of ExistingCodeList, NewCodeList, CompositeCodeList or NewCodeListInCSVW
type CodeList interface {
	ValidateStructure() []error
	codeList()
}

// LocalCodeList is implemented by the code lists that get their own CSV-W document
type LocalCodeList interface {
	CodeList
	ArbitraryRDFCarrier
	Identifier() string
	CatalogMetadata() CatalogMetadata
	ConceptList() []Concept
}

type ExistingCodeList struct {
	ConceptSchemeURI string
}

func (cl *ExistingCodeList) ValidateStructure() []error {
	if cl.ConceptSchemeURI == "" {
		return []error{errors.NewInvalidCubeError("existing code list is missing a concept scheme uri")}
	}
	return nil
}

func (*ExistingCodeList) codeList() {}

// NewCodeListInCSVW refers to a code list already published as CSV-W next to the cube
type NewCodeListInCSVW struct {
	SchemeURI string
	CSVWPath  string
}

func (cl *NewCodeListInCSVW) ValidateStructure() []error {
	if cl.SchemeURI == "" || cl.CSVWPath == "" {
		return []error{errors.NewInvalidCubeError("code list in csv-w needs both a scheme uri and a csv-w path")}
	}
	return nil
}

func (*NewCodeListInCSVW) codeList() {}

type Concept struct {
	Label       string
	Code        string
	ParentCode  string
	SortOrder   *int
	Description string
}

// ExistingConceptFields points a locally defined concept at the concept it duplicates
type ExistingConceptFields struct {
	ExistingConceptURI string
}

// DuplicatedConcept is a local concept that is also a copy of an existing one
type DuplicatedConcept struct {
	Concept
	ExistingConceptFields
}

type NewCodeList struct {
	Metadata CatalogMetadata
	Concepts []Concept
	Triples  []TripleFragment
}

func (cl *NewCodeList) Identifier() string               { return cl.Metadata.URISafeIdentifier() }
func (cl *NewCodeList) CatalogMetadata() CatalogMetadata { return cl.Metadata }
func (cl *NewCodeList) ConceptList() []Concept           { return cl.Concepts }
func (cl *NewCodeList) ArbitraryRDF() []TripleFragment   { return cl.Triples }
func (cl *NewCodeList) RDFHints() ([]Hint, Hint) {
	return []Hint{HintConceptScheme}, HintConceptScheme
}
func (*NewCodeList) codeList() {}

func (cl *NewCodeList) ValidateStructure() []error {
	return validateConcepts(cl.Metadata, cl.Concepts)
}

type CompositeCodeList struct {
	Metadata CatalogMetadata
	Concepts []DuplicatedConcept
	Triples  []TripleFragment
}

func (cl *CompositeCodeList) Identifier() string               { return cl.Metadata.URISafeIdentifier() }
func (cl *CompositeCodeList) CatalogMetadata() CatalogMetadata { return cl.Metadata }
func (cl *CompositeCodeList) ArbitraryRDF() []TripleFragment   { return cl.Triples }
func (cl *CompositeCodeList) RDFHints() ([]Hint, Hint) {
	return []Hint{HintConceptScheme}, HintConceptScheme
}
func (*CompositeCodeList) codeList() {}

func (cl *CompositeCodeList) ConceptList() []Concept {
	concepts := make([]Concept, 0, len(cl.Concepts))
	for _, c := range cl.Concepts {
		concepts = append(concepts, c.Concept)
	}
	return concepts
}

// ExistingConceptURI returns the uri of the concept duplicated by code
func (cl *CompositeCodeList) ExistingConceptURI(code string) (string, bool) {
	for _, c := range cl.Concepts {
		if c.Code == code {
			return c.ExistingConceptURI, true
		}
	}
	return "", false
}

func (cl *CompositeCodeList) ValidateStructure() []error {
	errs := validateConcepts(cl.Metadata, cl.ConceptList())
	for _, c := range cl.Concepts {
		if c.ExistingConceptURI == "" {
			errs = append(errs, errors.NewInvalidCubeError("duplicated concept %q does not reference an existing concept", c.Label))
		}
	}
	return errs
}

func validateConcepts(meta CatalogMetadata, concepts []Concept) []error {
	errs := []error{}

	if meta.URISafeIdentifier() == "" {
		errs = append(errs, errors.NewInvalidCubeError("code list has neither title nor identifier"))
	}

	codes := map[string]string{}
	for _, c := range concepts {
		if c.Code == "" {
			errs = append(errs, errors.NewInvalidCubeError("concept %q in code list %q has no code", c.Label, meta.Title))
			continue
		}
		if other, ok := codes[c.Code]; ok {
			errs = append(errs, errors.NewDataValidationError("concepts %q and %q in code list %q share the code %q", other, c.Label, meta.Title, c.Code))
			continue
		}
		codes[c.Code] = c.Label
	}

	for _, c := range concepts {
		if c.ParentCode == "" {
			continue
		}
		if _, ok := codes[c.ParentCode]; !ok {
			errs = append(errs, errors.NewDataValidationError("concept %q has unknown parent code %q", c.Label, c.ParentCode))
		}
	}

	return errs
}

// containsConcept reports whether value is the label or the code of a concept
func containsConcept(concepts []Concept, value string) bool {
	for _, c := range concepts {
		if c.Label == value || c.Code == value {
			return true
		}
	}
	return false
}

// uniqueSortedValues drops empty and repeated values and sorts the rest
func uniqueSortedValues(values []string) []string {
	seen := map[string]struct{}{}
	unique := []string{}

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	sort.Strings(unique)
	return unique
}

func collisionErrors(values []string, context string) []error {
	collisions := identifiers.FindCollisions(values)
	if len(collisions) == 0 {
		return nil
	}

	slugs := make([]string, 0, len(collisions))
	for slug := range collisions {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	errs := make([]error, 0, len(slugs))
	for _, slug := range slugs {
		errs = append(errs, errors.NewDataValidationError("%s: values %q all map to the code %q", context, collisions[slug], slug))
	}
	return errs
}

// NewCodeListFromValues builds a code list with one concept per distinct cell
// value, sorted by value. Values that collapse to the same code are rejected.
func NewCodeListFromValues(meta CatalogMetadata, values []string) (*NewCodeList, error) {
	unique := uniqueSortedValues(values)

	if errs := collisionErrors(unique, fmt.Sprintf("code list %q", meta.Title)); len(errs) > 0 {
		return nil, joinErrors(errs)
	}

	concepts := make([]Concept, 0, len(unique))
	for _, v := range unique {
		concepts = append(concepts, Concept{Label: v, Code: identifiers.Slugify(v)})
	}

	return &NewCodeList{Metadata: meta, Concepts: concepts}, nil
}

// IsTimeIntervalTemplate reports whether a dimension with the given parent and
// legacy value template should reuse the government reference time intervals
func IsTimeIntervalTemplate(parentURI, valueTemplate string) bool {
	return parentURI == vocabulary.SDMXRefPeriod &&
		strings.HasPrefix(valueTemplate, vocabulary.GovernmentTimeIntervalPrefix)
}

// NewDimensionCodeList builds the code list for a new dimension from its cell values.
//
// Dimensions that are sub properties of sdmx-dimension:refPeriod and whose
// legacy value template points at the government time-interval authority get
// a CompositeCodeList instead. Each of its concepts duplicates the time
// interval found by expanding the template with the concept label.
func NewDimensionCodeList(dim *NewDimension, valueTemplate string, values []string) (CodeList, error) {
	meta := CatalogMetadata{Title: dim.Label}

	if !IsTimeIntervalTemplate(dim.ParentURI, valueTemplate) {
		return NewCodeListFromValues(meta, values)
	}

	tmpl, err := uritemplate.New(valueTemplate)
	if err != nil {
		return nil, errors.NewInvalidCubeError("invalid value template %q for dimension %q: %s", valueTemplate, dim.Label, err.Error())
	}

	unique := uniqueSortedValues(values)
	if errs := collisionErrors(unique, fmt.Sprintf("code list %q", meta.Title)); len(errs) > 0 {
		return nil, joinErrors(errs)
	}

	concepts := make([]DuplicatedConcept, 0, len(unique))

	for _, label := range unique {
		vars := uritemplate.Values{}
		for _, name := range tmpl.Varnames() {
			vars.Set(name, uritemplate.String(label))
		}

		existingURI, err := tmpl.Expand(vars)
		if err != nil {
			return nil, errors.NewInvalidCubeError("unable to expand %q with %q: %s", valueTemplate, label, err.Error())
		}

		concepts = append(concepts, DuplicatedConcept{
			Concept:               Concept{Label: label, Code: identifiers.Slugify(label)},
			ExistingConceptFields: ExistingConceptFields{ExistingConceptURI: existingURI},
		})
	}

	return &CompositeCodeList{Metadata: meta, Concepts: concepts}, nil
}
