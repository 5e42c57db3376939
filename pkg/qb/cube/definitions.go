package cube

import (
	"fmt"

	"github.com/diwise/csvcube/pkg/identifiers"
	"github.com/diwise/csvcube/pkg/qb/errors"
)

// StructuralDefinition is the role a column plays in the cube. The set of
// implementations is closed: ExistingDimension, NewDimension, ExistingAttribute,
// NewAttribute, MultiUnits, MultiMeasureDimension and ObservationValue.
type StructuralDefinition interface {
	ValidateStructure() []error
	ValidateData(values []string) []error
	structuralDefinition()
}

// Dimension is implemented by ExistingDimension and NewDimension
type Dimension interface {
	StructuralDefinition
	ArbitraryRDFCarrier
	dimension()
}

type ExistingDimension struct {
	URI      string
	RangeURI string
	Triples  []TripleFragment
}

func (d *ExistingDimension) ValidateStructure() []error {
	if d.URI == "" {
		return []error{errors.NewInvalidCubeError("existing dimension is missing a uri")}
	}
	return nil
}

func (d *ExistingDimension) ValidateData(values []string) []error {
	return nil
}

func (d *ExistingDimension) ArbitraryRDF() []TripleFragment { return d.Triples }
func (d *ExistingDimension) RDFHints() ([]Hint, Hint)       { return []Hint{HintComponent}, HintComponent }
func (*ExistingDimension) structuralDefinition()            {}
func (*ExistingDimension) dimension()                       {}

type NewDimension struct {
	Label       string
	Description string
	ParentURI   string
	SourceURI   string
	CodeList    CodeList
	Triples     []TripleFragment
}

func (d *NewDimension) Identifier() string {
	return identifiers.Slugify(d.Label)
}

func (d *NewDimension) ValidateStructure() []error {
	errs := []error{}

	if d.Identifier() == "" {
		errs = append(errs, errors.NewInvalidCubeError("new dimension %q has no usable label", d.Label))
	}

	if d.CodeList != nil {
		errs = append(errs, d.CodeList.ValidateStructure()...)
	}

	return errs
}

func (d *NewDimension) ValidateData(values []string) []error {
	local, ok := d.CodeList.(LocalCodeList)
	if !ok {
		return nil
	}

	return valuesMustMatch(values, func(v string) bool {
		return containsConcept(local.ConceptList(), v)
	}, "code list of dimension %q", d.Label)
}

func (d *NewDimension) ArbitraryRDF() []TripleFragment { return d.Triples }
func (d *NewDimension) RDFHints() ([]Hint, Hint) {
	return []Hint{HintComponent, HintProperty}, HintProperty
}
func (*NewDimension) structuralDefinition() {}
func (*NewDimension) dimension()            {}

// AttributeValue is a new resource that a resource valued attribute may take
type AttributeValue struct {
	Label       string
	Description string
	ParentURI   string
	SourceURI   string
	Triples     []TripleFragment
}

func (v *AttributeValue) Identifier() string {
	return identifiers.Slugify(v.Label)
}

func (v *AttributeValue) ArbitraryRDF() []TripleFragment { return v.Triples }
func (v *AttributeValue) RDFHints() ([]Hint, Hint) {
	return []Hint{HintAttributeValue}, HintAttributeValue
}

// Attribute is implemented by ExistingAttribute and NewAttribute
type Attribute interface {
	StructuralDefinition
	ArbitraryRDFCarrier
	Required() bool
	// Datatype is the literal datatype, empty for resource valued attributes
	Datatype() string
	Values() []*AttributeValue
	// DescribesObservationColumn is the title of the observation column this
	// attribute describes, empty when not given
	DescribesObservationColumn() string
	attribute()
}

type ExistingAttribute struct {
	URI                      string
	IsRequired               bool
	LiteralDatatype          string
	NewValues                []*AttributeValue
	ObservedValueColumnTitle string
	Triples                  []TripleFragment
}

func (a *ExistingAttribute) Required() bool                     { return a.IsRequired }
func (a *ExistingAttribute) Datatype() string                   { return a.LiteralDatatype }
func (a *ExistingAttribute) Values() []*AttributeValue          { return a.NewValues }
func (a *ExistingAttribute) DescribesObservationColumn() string { return a.ObservedValueColumnTitle }
func (a *ExistingAttribute) ArbitraryRDF() []TripleFragment     { return a.Triples }
func (a *ExistingAttribute) RDFHints() ([]Hint, Hint)           { return []Hint{HintComponent}, HintComponent }
func (*ExistingAttribute) structuralDefinition()                {}
func (*ExistingAttribute) attribute()                           {}

func (a *ExistingAttribute) ValidateStructure() []error {
	errs := validateAttributeEncoding(a.URI, a.LiteralDatatype, a.NewValues, nil)
	if a.URI == "" {
		errs = append(errs, errors.NewInvalidCubeError("existing attribute is missing a uri"))
	}
	return errs
}

func (a *ExistingAttribute) ValidateData(values []string) []error {
	return validateAttributeData(a, a.URI, values)
}

type NewAttribute struct {
	Label                    string
	Description              string
	ParentURI                string
	SourceURI                string
	IsRequired               bool
	LiteralDatatype          string
	NewValues                []*AttributeValue
	CodeList                 CodeList
	ObservedValueColumnTitle string
	Triples                  []TripleFragment
}

func (a *NewAttribute) Identifier() string {
	return identifiers.Slugify(a.Label)
}

func (a *NewAttribute) Required() bool                     { return a.IsRequired }
func (a *NewAttribute) Datatype() string                   { return a.LiteralDatatype }
func (a *NewAttribute) Values() []*AttributeValue          { return a.NewValues }
func (a *NewAttribute) DescribesObservationColumn() string { return a.ObservedValueColumnTitle }
func (a *NewAttribute) ArbitraryRDF() []TripleFragment     { return a.Triples }
func (a *NewAttribute) RDFHints() ([]Hint, Hint) {
	return []Hint{HintComponent, HintProperty}, HintProperty
}
func (*NewAttribute) structuralDefinition() {}
func (*NewAttribute) attribute()            {}

func (a *NewAttribute) ValidateStructure() []error {
	errs := validateAttributeEncoding(a.Label, a.LiteralDatatype, a.NewValues, a.CodeList)

	if a.Identifier() == "" {
		errs = append(errs, errors.NewInvalidCubeError("new attribute %q has no usable label", a.Label))
	}

	if a.CodeList != nil {
		errs = append(errs, a.CodeList.ValidateStructure()...)
	}

	return errs
}

func (a *NewAttribute) ValidateData(values []string) []error {
	if local, ok := a.CodeList.(LocalCodeList); ok {
		return valuesMustMatch(values, func(v string) bool {
			return containsConcept(local.ConceptList(), v)
		}, "code list of attribute %q", a.Label)
	}
	return validateAttributeData(a, a.Label, values)
}

func validateAttributeEncoding(name, datatype string, newValues []*AttributeValue, codeList CodeList) []error {
	errs := []error{}

	if datatype != "" && (len(newValues) > 0 || codeList != nil) {
		errs = append(errs, errors.NewStructuralConflictError(
			"attribute %q cannot be both literal (%s) and resource valued", name, datatype,
		))
	}

	if datatype != "" && !IsKnownDatatype(datatype) {
		errs = append(errs, errors.NewInvalidCubeError("attribute %q has unknown datatype %q", name, datatype))
	}

	labels := make([]string, 0, len(newValues))
	for _, v := range newValues {
		labels = append(labels, v.Label)
	}
	errs = append(errs, collisionErrors(labels, "values of attribute "+name)...)

	return errs
}

func validateAttributeData(a Attribute, name string, values []string) []error {
	if a.Datatype() != "" {
		errs := []error{}
		for _, v := range uniqueSortedValues(values) {
			if err := ValidateLiteral(a.Datatype(), v); err != nil {
				errs = append(errs, errors.NewDataValidationError("attribute %q: %s", name, err.Error()))
			}
		}
		return errs
	}

	if len(a.Values()) == 0 {
		return nil
	}

	return valuesMustMatch(values, func(v string) bool {
		for _, av := range a.Values() {
			if av.Label == v || av.Identifier() == v {
				return true
			}
		}
		return false
	}, "values of attribute %q", name)
}

// MultiUnits is a column holding the unit of each observation. All units must
// be new or all must be existing.
type MultiUnits struct {
	Units                    []Unit
	ObservedValueColumnTitle string
}

func (mu *MultiUnits) AllNew() bool {
	for _, u := range mu.Units {
		if !isNewUnit(u) {
			return false
		}
	}
	return len(mu.Units) > 0
}

func (mu *MultiUnits) AllExisting() bool {
	for _, u := range mu.Units {
		if isNewUnit(u) {
			return false
		}
	}
	return len(mu.Units) > 0
}

func (mu *MultiUnits) ValidateStructure() []error {
	if len(mu.Units) == 0 {
		return []error{errors.NewStructuralConflictError("units column must define at least one unit")}
	}

	if !mu.AllNew() && !mu.AllExisting() {
		return []error{errors.NewStructuralConflictError("units column mixes new and existing units")}
	}

	errs := []error{}
	labels := []string{}

	for _, u := range mu.Units {
		if nu, ok := u.(*NewUnit); ok {
			errs = append(errs, nu.ValidateStructure()...)
			labels = append(labels, nu.Label)
		}
	}

	return append(errs, collisionErrors(labels, "units")...)
}

func (mu *MultiUnits) ValidateData(values []string) []error {
	return valuesMustMatch(values, func(v string) bool {
		for _, u := range mu.Units {
			if u.Matches(v) {
				return true
			}
		}
		return false
	}, "declared units")
}

func (*MultiUnits) structuralDefinition() {}

// MultiMeasureDimension is a column selecting the measure of each observation
// in a standard shaped cube. All measures must be new or all must be existing.
type MultiMeasureDimension struct {
	Measures []Measure
}

func (mm *MultiMeasureDimension) AllNew() bool {
	for _, m := range mm.Measures {
		if !isNewMeasure(m) {
			return false
		}
	}
	return len(mm.Measures) > 0
}

func (mm *MultiMeasureDimension) AllExisting() bool {
	for _, m := range mm.Measures {
		if isNewMeasure(m) {
			return false
		}
	}
	return len(mm.Measures) > 0
}

func (mm *MultiMeasureDimension) ValidateStructure() []error {
	if len(mm.Measures) == 0 {
		return []error{errors.NewStructuralConflictError("measure dimension must define at least one measure")}
	}

	if !mm.AllNew() && !mm.AllExisting() {
		return []error{errors.NewStructuralConflictError("measure dimension mixes new and existing measures")}
	}

	labels := []string{}
	for _, m := range mm.Measures {
		if nm, ok := m.(*NewMeasure); ok {
			labels = append(labels, nm.Label)
		}
	}

	return collisionErrors(labels, "measures")
}

func (mm *MultiMeasureDimension) ValidateData(values []string) []error {
	return valuesMustMatch(values, func(v string) bool {
		for _, m := range mm.Measures {
			if m.Matches(v) {
				return true
			}
		}
		return false
	}, "declared measures")
}

func (*MultiMeasureDimension) structuralDefinition() {}

// ObservationValue holds the observed values. A Measure makes the cube
// pivoted, without one the measure comes from a MultiMeasureDimension column.
type ObservationValue struct {
	Measure  Measure
	Unit     Unit
	DataType string
}

const DefaultObservationDatatype string = "decimal"

func (ov *ObservationValue) Datatype() string {
	if ov.DataType == "" {
		return DefaultObservationDatatype
	}
	return ov.DataType
}

func (ov *ObservationValue) ValidateStructure() []error {
	errs := []error{}

	if !IsKnownDatatype(ov.Datatype()) {
		errs = append(errs, errors.NewInvalidCubeError("observation datatype %q is not supported", ov.Datatype()))
	}

	if nu, ok := ov.Unit.(*NewUnit); ok {
		errs = append(errs, nu.ValidateStructure()...)
	}

	return errs
}

func (ov *ObservationValue) ValidateData(values []string) []error {
	errs := []error{}
	for _, v := range uniqueSortedValues(values) {
		if err := ValidateLiteral(ov.Datatype(), v); err != nil {
			errs = append(errs, errors.NewDataValidationError("observation value: %s", err.Error()))
		}
	}
	return errs
}

func (*ObservationValue) structuralDefinition() {}

func valuesMustMatch(values []string, match func(string) bool, format string, args ...any) []error {
	errs := []error{}
	for _, v := range uniqueSortedValues(values) {
		if !match(v) {
			errs = append(errs, errors.NewDataValidationError("value %q is not one of the %s", v, fmt.Sprintf(format, args...)))
		}
	}
	return errs
}
