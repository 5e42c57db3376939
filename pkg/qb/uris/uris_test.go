package uris

import (
	"testing"

	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/matryer/is"
)

func TestStandardStyleCarriesExtension(t *testing.T) {
	is := is.New(t)

	g := New("dataset", cube.URIStyleStandard)

	is.Equal(g.Dataset(), "dataset.csv#dataset")
	is.Equal(g.Structure(), "dataset.csv#structure")
	is.Equal(g.Component("year"), "dataset.csv#component/year")
	is.Equal(g.Dimension("year"), "dataset.csv#dimension/year")
	is.Equal(g.Attribute("status"), "dataset.csv#attribute/status")
	is.Equal(g.AttributeValue("status", "provisional"), "dataset.csv#attribute/status/provisional")
	is.Equal(g.Measure("count"), "dataset.csv#measure/count")
	is.Equal(g.Unit("people"), "dataset.csv#unit/people")
	is.Equal(g.Class("year"), "dataset.csv#class/year")
	is.Equal(g.SliceKey(), "dataset.csv#slice/cross-measures")
	is.Equal(g.Observation("{d}@m"), "dataset.csv#obs/{d}@m")
}

func TestWithoutExtensionsStyle(t *testing.T) {
	is := is.New(t)

	g := New("dataset", cube.URIStyleWithoutExtensions)

	is.Equal(g.Dataset(), "dataset#dataset")
	is.Equal(g.CodeList("area").ConceptScheme(), "area#code-list")
	is.Equal(g.CodeList("area").Concept("{+area}"), "area#{+area}")
}

func TestGeneratorIsReferentiallyTransparent(t *testing.T) {
	is := is.New(t)

	a := New("dataset", cube.URIStyleStandard)
	b := ForCube(cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleStandard))

	is.Equal(a, b)
	is.Equal(a.Measure("count"), b.Measure("count"))
	is.Equal(a.CodeList("area").ConceptScheme(), "area.csv#code-list")
}

func TestColumnTemplates(t *testing.T) {
	is := is.New(t)
	is.Equal(ColumnTemplate("col"), "{+col}")
	is.Equal(EscapedColumnTemplate("col"), "{col}")
}
