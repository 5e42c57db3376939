package cube

import (
	"errors"
	"testing"

	qberrors "github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
	"github.com/matryer/is"
)

func TestCodeListFromValuesIsDeduplicatedAndSorted(t *testing.T) {
	is := is.New(t)

	cl, err := NewCodeListFromValues(CatalogMetadata{Title: "Area"}, []string{"Wales", "England", "Wales", "", "Northern Ireland"})
	is.NoErr(err)

	is.Equal(cl.Identifier(), "area")
	is.Equal(len(cl.Concepts), 3)
	is.Equal(cl.Concepts[0], Concept{Label: "England", Code: "england"})
	is.Equal(cl.Concepts[1], Concept{Label: "Northern Ireland", Code: "northern-ireland"})
	is.Equal(cl.Concepts[2], Concept{Label: "Wales", Code: "wales"})
}

func TestCodeListFromCollidingValuesIsADataValidationError(t *testing.T) {
	is := is.New(t)

	_, err := NewCodeListFromValues(CatalogMetadata{Title: "Area"}, []string{"Foo Bar", "foo-bar"})

	is.True(errors.Is(err, qberrors.ErrDataValidation))
}

func TestConceptsMustNotShareACode(t *testing.T) {
	is := is.New(t)

	cl := &NewCodeList{
		Metadata: CatalogMetadata{Title: "Colours"},
		Concepts: []Concept{{Label: "Red", Code: "r"}, {Label: "Rouge", Code: "r"}, {Label: "Pink", Code: "p", ParentCode: "x"}},
	}

	errs := cl.ValidateStructure()
	is.Equal(len(errs), 2) // one shared code and one unknown parent
	is.True(errors.Is(errs[0], qberrors.ErrDataValidation))
}

func TestTimeIntervalDimensionGetsDuplicatedConcepts(t *testing.T) {
	is := is.New(t)

	dim := &NewDimension{Label: "Period", ParentURI: vocabulary.SDMXRefPeriod}

	cl, err := NewDimensionCodeList(dim, "http://reference.data.gov.uk/id/{+period}", []string{"year/2019", "year/2018", "year/2019"})
	is.NoErr(err)

	composite, ok := cl.(*CompositeCodeList)
	is.True(ok) // should be a composite code list

	is.Equal(len(composite.Concepts), 2)
	is.Equal(composite.Concepts[0].Label, "year/2018")
	is.Equal(composite.Concepts[0].Code, "year-2018")
	is.Equal(composite.Concepts[0].ExistingConceptURI, "http://reference.data.gov.uk/id/year/2018")

	uri, ok := composite.ExistingConceptURI("year-2019")
	is.True(ok)
	is.Equal(uri, "http://reference.data.gov.uk/id/year/2019")
}

func TestOrdinaryDimensionGetsNewCodeList(t *testing.T) {
	is := is.New(t)

	dim := &NewDimension{Label: "Period"}

	cl, err := NewDimensionCodeList(dim, "http://reference.data.gov.uk/id/{+period}", []string{"2019"})
	is.NoErr(err)

	_, ok := cl.(*NewCodeList)
	is.True(ok) // without refPeriod as parent an ordinary code list should be built
}

func TestDimensionValuesMustBeInCodeList(t *testing.T) {
	is := is.New(t)

	cl, _ := NewCodeListFromValues(CatalogMetadata{Title: "Area"}, []string{"Wales"})
	dim := &NewDimension{Label: "Area", CodeList: cl}

	is.Equal(len(dim.ValidateData([]string{"Wales", "wales"})), 0)
	is.Equal(len(dim.ValidateData([]string{"Scotland"})), 1)
}
