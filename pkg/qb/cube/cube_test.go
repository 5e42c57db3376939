package cube

import (
	"errors"
	"testing"

	qberrors "github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
	"github.com/matryer/is"
)

func TestShapeIsPivotedWhenEveryObservationHasAMeasure(t *testing.T) {
	is := is.New(t)

	c := New(CatalogMetadata{Title: "Pivoted"}, URIStyleStandard,
		&Column{Title: "Year", Definition: &NewDimension{Label: "Year"}},
		&Column{Title: "Count", Definition: &ObservationValue{Measure: &NewMeasure{Label: "Count"}}},
		&Column{Title: "Rate", Definition: &ObservationValue{Measure: &NewMeasure{Label: "Rate"}}},
	)

	shape, err := c.Shape()
	is.NoErr(err)
	is.Equal(shape, ShapePivoted)
	is.Equal(len(c.Validate()), 0) // a pivoted cube should validate
}

func TestShapeIsStandardWhenNoObservationHasAMeasure(t *testing.T) {
	is := is.New(t)

	c := standardCube()

	shape, err := c.Shape()
	is.NoErr(err)
	is.Equal(shape, ShapeStandard)
	is.Equal(len(c.Validate()), 0) // a standard cube should validate
}

func TestMixedShapeIsAStructuralConflict(t *testing.T) {
	is := is.New(t)

	c := New(CatalogMetadata{Title: "Mixed"}, URIStyleStandard,
		&Column{Title: "Count", Definition: &ObservationValue{Measure: &NewMeasure{Label: "Count"}}},
		&Column{Title: "Value", Definition: &ObservationValue{}},
	)

	_, err := c.Shape()
	is.True(errors.Is(err, qberrors.ErrStructuralConflict))
}

func TestIdentifierIsFixedAtConstruction(t *testing.T) {
	is := is.New(t)

	c := New(CatalogMetadata{Title: "My Fine Dataset"}, URIStyleStandard)
	c.Metadata.Title = "Something Else"

	is.Equal(c.Identifier(), "my-fine-dataset")
	is.Equal(New(CatalogMetadata{Title: "x", Identifier: "explicit"}, URIStyleStandard).Identifier(), "explicit")
}

func TestDuplicateColumnTitlesAreInvalid(t *testing.T) {
	is := is.New(t)

	c := New(CatalogMetadata{Title: "Dupes"}, URIStyleStandard,
		&Column{Title: "Year", Definition: &NewDimension{Label: "Year"}},
		&Column{Title: "Year", Definition: &NewDimension{Label: "Year 2"}},
		&Column{Title: "Count", Definition: &ObservationValue{Measure: &NewMeasure{Label: "Count"}}},
	)

	errs := c.Validate()
	is.True(len(errs) > 0)
	is.True(errors.Is(errs[0], qberrors.ErrInvalidCube))
}

func TestCodeListsWithTheSameIdentifierAreInvalid(t *testing.T) {
	is := is.New(t)

	areas := &NewCodeList{Metadata: CatalogMetadata{Title: "Area"}, Concepts: []Concept{{Label: "North", Code: "north"}}}
	kinds := &NewCodeList{Metadata: CatalogMetadata{Title: "Area"}, Concepts: []Concept{{Label: "Urban", Code: "urban"}}}

	c := New(CatalogMetadata{Title: "Population"}, URIStyleStandard,
		&Column{Title: "Area", Definition: &NewDimension{Label: "Area", CodeList: areas}},
		&Column{Title: "Area Kind", Definition: &NewAttribute{Label: "Area Kind", CodeList: kinds}},
		&Column{Title: "Count", Definition: &ObservationValue{Measure: &NewMeasure{Label: "Count"}}},
	)

	is.True(hasError(c.Validate(), qberrors.ErrStructuralConflict))
}

func TestColumnsMayShareACodeList(t *testing.T) {
	is := is.New(t)

	areas := &NewCodeList{Metadata: CatalogMetadata{Title: "Areas"}, Concepts: []Concept{{Label: "North", Code: "north"}}}

	c := New(CatalogMetadata{Title: "Moves"}, URIStyleStandard,
		&Column{Title: "From", Definition: &NewDimension{Label: "From", CodeList: areas}},
		&Column{Title: "To", Definition: &NewDimension{Label: "To", CodeList: areas}},
		&Column{Title: "Count", Definition: &ObservationValue{Measure: &NewMeasure{Label: "Count"}}},
	)

	is.Equal(len(c.Validate()), 0)
}

func TestCodeListCannotShareTheCubeIdentifier(t *testing.T) {
	is := is.New(t)

	areas := &NewCodeList{Metadata: CatalogMetadata{Title: "Area"}, Concepts: []Concept{{Label: "North", Code: "north"}}}

	c := New(CatalogMetadata{Title: "Area"}, URIStyleStandard,
		&Column{Title: "Area", Definition: &NewDimension{Label: "Area", CodeList: areas}},
		&Column{Title: "Count", Definition: &ObservationValue{Measure: &NewMeasure{Label: "Count"}}},
	)

	is.True(hasError(c.Validate(), qberrors.ErrStructuralConflict))
}

func TestObservationColumnsCannotShareAnExistingMeasure(t *testing.T) {
	is := is.New(t)

	c := New(CatalogMetadata{Title: "Counts"}, URIStyleStandard,
		&Column{Title: "Area", Definition: &NewDimension{Label: "Area"}},
		&Column{Title: "Count A", Definition: &ObservationValue{Measure: &ExistingMeasure{URI: "http://x/measure/count"}}},
		&Column{Title: "Count B", Definition: &ObservationValue{Measure: &ExistingMeasure{URI: "http://x/measure/count"}}},
	)

	is.True(hasError(c.Validate(), qberrors.ErrStructuralConflict))
}

func TestNewAndExistingMeasuresWithTheSameSlugAreInvalid(t *testing.T) {
	is := is.New(t)

	c := New(CatalogMetadata{Title: "Counts"}, URIStyleStandard,
		&Column{Title: "Area", Definition: &NewDimension{Label: "Area"}},
		&Column{Title: "Count", Definition: &ObservationValue{Measure: &NewMeasure{Label: "http x measure count"}}},
		&Column{Title: "Other", Definition: &ObservationValue{Measure: &ExistingMeasure{URI: "http://x/measure/count"}}},
	)

	is.True(hasError(c.Validate(), qberrors.ErrStructuralConflict))
}

func TestAttributeCannotBeLiteralAndResourceValued(t *testing.T) {
	is := is.New(t)

	attr := &NewAttribute{
		Label:           "Status",
		LiteralDatatype: "string",
		NewValues:       []*AttributeValue{{Label: "Provisional"}},
	}

	errs := attr.ValidateStructure()
	is.Equal(len(errs), 1)
	is.True(errors.Is(errs[0], qberrors.ErrStructuralConflict))

	existing := &ExistingAttribute{URI: "http://x/attr", LiteralDatatype: "decimal", NewValues: []*AttributeValue{{Label: "a"}}}
	is.True(errors.Is(existing.ValidateStructure()[0], qberrors.ErrStructuralConflict))
}

func TestMixedMultiUnitsIsAStructuralConflict(t *testing.T) {
	is := is.New(t)

	mixed := &MultiUnits{Units: []Unit{&NewUnit{Label: "Pounds"}, &ExistingUnit{URI: "http://qudt.org/vocab/unit/GBP"}}}
	errs := mixed.ValidateStructure()
	is.Equal(len(errs), 1)
	is.True(errors.Is(errs[0], qberrors.ErrStructuralConflict))

	homogeneous := &MultiUnits{Units: []Unit{&NewUnit{Label: "Pounds"}, &NewUnit{Label: "Euros"}}}
	is.Equal(len(homogeneous.ValidateStructure()), 0)
}

func TestMixedMeasureDimensionIsAStructuralConflict(t *testing.T) {
	is := is.New(t)

	mixed := &MultiMeasureDimension{Measures: []Measure{&NewMeasure{Label: "Count"}, &ExistingMeasure{URI: "http://x/measure/rate"}}}
	is.True(errors.Is(mixed.ValidateStructure()[0], qberrors.ErrStructuralConflict))

	empty := &MultiMeasureDimension{}
	is.True(errors.Is(empty.ValidateStructure()[0], qberrors.ErrStructuralConflict))
}

func TestUnitScalingWithoutBaseUnitIsRejected(t *testing.T) {
	is := is.New(t)

	u := &NewUnit{Label: "Thousands", Scaling: &UnitScaling{ScalingFactor: 1000}}
	is.True(errors.Is(u.ValidateStructure()[0], qberrors.ErrStructuralConflict))
}

func TestUnitsMustAppearInDeclaredSet(t *testing.T) {
	is := is.New(t)

	mu := &MultiUnits{Units: []Unit{&NewUnit{Label: "Pounds Sterling"}, &NewUnit{Label: "Euros"}}}

	is.Equal(len(mu.ValidateData([]string{"Euros", "pounds-sterling", "Euros"})), 0)

	errs := mu.ValidateData([]string{"Euros", "Dollars"})
	is.Equal(len(errs), 1)
	is.True(errors.Is(errs[0], qberrors.ErrDataValidation))
}

func TestObservationValuesMustMatchDatatype(t *testing.T) {
	is := is.New(t)

	ov := &ObservationValue{DataType: "integer"}
	is.Equal(len(ov.ValidateData([]string{"1", "22", ""})), 0)
	is.Equal(len(ov.ValidateData([]string{"1.5"})), 1)
}

func TestCubeValidateDataPrefixesColumn(t *testing.T) {
	is := is.New(t)

	c := standardCube()
	errs := c.ValidateData(map[string][]string{"Measure": {"Nope"}})

	is.Equal(len(errs), 1)
	is.Equal(errs[0].Error(), `column Measure: value "Nope" is not one of the declared measures`)
}

func TestStandardCubeRequiresMeasureDimension(t *testing.T) {
	is := is.New(t)

	c := New(CatalogMetadata{Title: "No measures"}, URIStyleStandard,
		&Column{Title: "Year", Definition: &NewDimension{Label: "Year"}},
		&Column{Title: "Value", Definition: &ObservationValue{}},
	)

	errs := c.Validate()
	is.Equal(len(errs), 1)
	is.True(errors.Is(errs[0], qberrors.ErrInvalidCube))
}

func TestHintResolution(t *testing.T) {
	is := is.New(t)

	dim := &NewDimension{Label: "Area"}
	is.Equal(ResolveHint(dim, HintDefaultNode), HintProperty)
	is.True(PermitsHint(dim, HintComponent))
	is.True(!PermitsHint(dim, HintUnit))

	existing := &ExistingDimension{URI: vocabulary.SDMXRefPeriod}
	is.Equal(ResolveHint(existing, HintDefaultNode), HintComponent)
	is.True(!PermitsHint(existing, HintProperty))

	h, ok := ParseHint("AttributeValue")
	is.True(ok)
	is.Equal(h, HintAttributeValue)
}

func hasError(errs []error, target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func standardCube() *Cube {
	return New(CatalogMetadata{Title: "Standard"}, URIStyleStandard,
		&Column{Title: "Year", Definition: &NewDimension{Label: "Year"}},
		&Column{Title: "Measure", Definition: &MultiMeasureDimension{Measures: []Measure{
			&NewMeasure{Label: "Count"}, &NewMeasure{Label: "Rate"},
		}}},
		&Column{Title: "Unit", Definition: &MultiUnits{Units: []Unit{&NewUnit{Label: "People"}, &NewUnit{Label: "Percent"}}}},
		&Column{Title: "Value", Definition: &ObservationValue{}},
	)
}
