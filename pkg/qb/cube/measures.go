package cube

import (
	"github.com/diwise/csvcube/pkg/identifiers"
	"github.com/diwise/csvcube/pkg/qb/errors"
)

// Measure is either an ExistingMeasure or a NewMeasure
type Measure interface {
	ArbitraryRDFCarrier
	// Identifier is the local id used in component and observation URIs
	Identifier() string
	// Matches reports whether a cell value refers to this measure
	Matches(value string) bool
	measure()
}

type ExistingMeasure struct {
	URI     string
	Triples []TripleFragment
}

func (m *ExistingMeasure) Identifier() string {
	return identifiers.Slugify(m.URI)
}

func (m *ExistingMeasure) Matches(value string) bool {
	return value == m.URI
}

func (m *ExistingMeasure) ArbitraryRDF() []TripleFragment { return m.Triples }
func (m *ExistingMeasure) RDFHints() ([]Hint, Hint)       { return []Hint{HintComponent}, HintComponent }
func (*ExistingMeasure) measure()                         {}

type NewMeasure struct {
	Label       string
	Description string
	ParentURI   string
	SourceURI   string
	Triples     []TripleFragment
}

func (m *NewMeasure) Identifier() string {
	return identifiers.Slugify(m.Label)
}

func (m *NewMeasure) Matches(value string) bool {
	return value == m.Label || value == m.Identifier()
}

func (m *NewMeasure) ArbitraryRDF() []TripleFragment { return m.Triples }
func (m *NewMeasure) RDFHints() ([]Hint, Hint) {
	return []Hint{HintComponent, HintProperty}, HintProperty
}
func (*NewMeasure) measure() {}

// Unit is either an ExistingUnit or a NewUnit
type Unit interface {
	Identifier() string
	Matches(value string) bool
	unit()
}

type ExistingUnit struct {
	URI string
}

func (u *ExistingUnit) Identifier() string        { return identifiers.Slugify(u.URI) }
func (u *ExistingUnit) Matches(value string) bool { return value == u.URI }
func (*ExistingUnit) unit()                       {}

// UnitScaling states that a unit is a scaled version of a base unit.
// The factor has no meaning without the base unit.
type UnitScaling struct {
	BaseUnit      Unit
	ScalingFactor float64
}

// QuantityKind ties a unit to a quantity kind together with the multiplier
// that converts values to the SI unit of that kind.
type QuantityKind struct {
	URI                    string
	SIConversionMultiplier float64
}

type NewUnit struct {
	Label        string
	Description  string
	Scaling      *UnitScaling
	QuantityKind *QuantityKind
	Triples      []TripleFragment
}

func (u *NewUnit) Identifier() string {
	return identifiers.Slugify(u.Label)
}

func (u *NewUnit) Matches(value string) bool {
	return value == u.Label || value == u.Identifier()
}

func (u *NewUnit) ArbitraryRDF() []TripleFragment { return u.Triples }
func (u *NewUnit) RDFHints() ([]Hint, Hint)       { return []Hint{HintUnit}, HintUnit }
func (*NewUnit) unit()                            {}

func (u *NewUnit) ValidateStructure() []error {
	errs := []error{}

	if u.Label == "" {
		errs = append(errs, errors.NewInvalidCubeError("new unit is missing a label"))
	}

	if u.Scaling != nil && u.Scaling.BaseUnit == nil {
		errs = append(errs, errors.NewStructuralConflictError("unit %q declares a scaling factor without a base unit", u.Label))
	}

	if u.QuantityKind != nil && u.QuantityKind.URI == "" {
		errs = append(errs, errors.NewStructuralConflictError("unit %q declares an si conversion multiplier without a quantity kind", u.Label))
	}

	return errs
}

func isNewMeasure(m Measure) bool {
	_, ok := m.(*NewMeasure)
	return ok
}

func isNewUnit(u Unit) bool {
	_, ok := u.(*NewUnit)
	return ok
}
