package csvw

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/dsd"
	"github.com/diwise/csvcube/pkg/qb/urihelper"
	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
	"github.com/matryer/is"
)

func TestPivotedCubeMetadata(t *testing.T) {
	is, m := setupTest(t, cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleStandard,
		&cube.Column{Title: "d", Definition: &cube.NewDimension{Label: "d"}},
		&cube.Column{Title: "Value", Definition: &cube.ObservationValue{Measure: &cube.NewMeasure{Label: "m"}}},
	))

	is.Equal(m.ID, "dataset.csv#dataset")
	is.Equal(m.Tables[0].URL, "dataset.csv")

	schema := m.Tables[0].TableSchema
	is.Equal(schema.AboutURL, "dataset.csv#slice/{d}")
	is.Equal(schema.PrimaryKey, []string{"d"})

	d := column(schema, "d")
	is.Equal(d.PropertyURL, "dataset.csv#dimension/d")
	is.Equal(d.ValueURL, "{+d}")
	is.Equal(d.AboutURL, "dataset.csv#slice/{d}")
	is.True(d.Required)

	value := column(schema, "value")
	is.Equal(value.AboutURL, "dataset.csv#obs/{d}@m")
	is.Equal(value.PropertyURL, "dataset.csv#measure/m")
	is.Equal(value.ValueURL, "")
	is.Equal(value.Datatype, "decimal")
	is.True(value.Required)

	slice := column(schema, "virt_slice_value")
	is.True(slice.Virtual)
	is.Equal(slice.AboutURL, "dataset.csv#slice/{d}")
	is.Equal(slice.PropertyURL, vocabulary.QBObservationLinkage)
	is.Equal(slice.ValueURL, "dataset.csv#obs/{d}@m")

	measureType := column(schema, "virt_measure_type_value")
	is.Equal(measureType.ValueURL, "dataset.csv#measure/m")

	dim := column(schema, "virt_dim_value_d")
	is.Equal(dim.AboutURL, "dataset.csv#obs/{d}@m")
	is.Equal(dim.PropertyURL, "dataset.csv#dimension/d")
}

func TestStandardCubeMetadata(t *testing.T) {
	is, m := setupTest(t, cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleWithoutExtensions,
		&cube.Column{Title: "d", Definition: &cube.NewDimension{Label: "d"}},
		&cube.Column{Title: "meas", Definition: &cube.MultiMeasureDimension{Measures: []cube.Measure{
			&cube.NewMeasure{Label: "Count"},
		}}},
		&cube.Column{Title: "Value", Definition: &cube.ObservationValue{Unit: &cube.NewUnit{Label: "People"}, DataType: "integer"}},
	))

	is.Equal(m.ID, "dataset#dataset")
	is.Equal(m.Tables[0].URL, "dataset.csv")

	schema := m.Tables[0].TableSchema
	is.Equal(schema.AboutURL, "dataset#obs/{d}@{meas}")
	is.Equal(schema.PrimaryKey, []string{"d", "meas"})

	is.Equal(column(schema, "d").AboutURL, "")

	meas := column(schema, "meas")
	is.Equal(meas.PropertyURL, vocabulary.QBMeasureType)
	is.Equal(meas.ValueURL, "dataset#measure/{+meas}")
	is.True(meas.Required)

	value := column(schema, "value")
	is.Equal(value.PropertyURL, "dataset#measure/{+meas}")
	is.Equal(value.Datatype, "integer")

	unit := column(schema, "virt_unit")
	is.Equal(unit.PropertyURL, vocabulary.SDMXUnitMeasure)
	is.Equal(unit.ValueURL, "dataset#unit/people")

	is.Equal(column(schema, "virt_type").ValueURL, vocabulary.QBObservation)
	is.Equal(column(schema, "virt_dataset").ValueURL, "dataset#dataset")
}

func TestRequiredAttributeInPivotedCubeWithSeveralObservationColumns(t *testing.T) {
	is := is.New(t)

	status := &cube.Column{Title: "Status", Definition: &cube.NewAttribute{Label: "Status", IsRequired: true, LiteralDatatype: "string"}}

	several := cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleStandard,
		&cube.Column{Title: "d", Definition: &cube.NewDimension{Label: "d"}},
		&cube.Column{Title: "Count", Definition: &cube.ObservationValue{Measure: &cube.NewMeasure{Label: "Count"}}},
		&cube.Column{Title: "Rate", Definition: &cube.ObservationValue{Measure: &cube.NewMeasure{Label: "Rate"}}},
		status,
	)
	is.Equal(IsRequired(several, cube.ShapePivoted, status), false)

	single := cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleStandard,
		&cube.Column{Title: "d", Definition: &cube.NewDimension{Label: "d"}},
		&cube.Column{Title: "Count", Definition: &cube.ObservationValue{Measure: &cube.NewMeasure{Label: "Count"}}},
		status,
	)
	is.Equal(IsRequired(single, cube.ShapePivoted, status), true)
}

func TestObservationsAreOptionalWithAnObsStatusAttribute(t *testing.T) {
	is := is.New(t)

	value := &cube.Column{Title: "Value", Definition: &cube.ObservationValue{Measure: &cube.NewMeasure{Label: "Count"}}}

	c := cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleStandard,
		&cube.Column{Title: "d", Definition: &cube.NewDimension{Label: "d"}},
		value,
	)
	is.True(IsRequired(c, cube.ShapePivoted, value))

	c.Columns = append(c.Columns, &cube.Column{Title: "Marker", Definition: &cube.NewAttribute{
		Label:     "Marker",
		ParentURI: vocabulary.SDMXObsStatus,
		NewValues: []*cube.AttributeValue{{Label: "Suppressed"}},
	}})
	is.Equal(IsRequired(c, cube.ShapePivoted, value), false)
}

func TestForeignKeysAndCodeListMetadata(t *testing.T) {
	cl, _ := cube.NewCodeListFromValues(cube.CatalogMetadata{Title: "Sex"}, []string{"Male", "Female"})

	c := cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleStandard,
		&cube.Column{Title: "Sex", Definition: &cube.NewDimension{Label: "Sex", CodeList: cl}},
		&cube.Column{Title: "Value", Definition: &cube.ObservationValue{Measure: &cube.NewMeasure{Label: "Count"}}},
	)

	is, m := setupTest(t, c)

	schema := m.Tables[0].TableSchema
	is.Equal(schema.ForeignKeys, []ForeignKey{{
		ColumnReference: "sex",
		Reference:       Reference{Resource: "sex.csv", ColumnReference: "notation"},
	}})
	is.Equal(column(schema, "sex").ValueURL, "sex.csv#{+sex}")

	g, err := dsd.Assemble(c)
	is.NoErr(err)

	clm := NewCodeListMetadata(g.CodeLists[0])
	is.Equal(clm.ID, "sex.csv#code-list")
	is.Equal(clm.Tables[0].URL, "sex.csv")
	is.Equal(clm.Tables[0].TableSchema.AboutURL, "sex.csv#{+notation}")
	is.Equal(clm.Tables[0].TableSchema.PrimaryKey, []string{"notation"})
	is.Equal(column(clm.Tables[0].TableSchema, "parent_notation").ValueURL, "sex.csv#{+parent_notation}")

	buf := &bytes.Buffer{}
	is.NoErr(WriteCodeListCSV(buf, cl))
	is.Equal(buf.String(), expectedSexCodeListCSV)
}

func TestMetadataMarshalsWithTheGraph(t *testing.T) {
	is, m := setupTest(t, cube.New(cube.CatalogMetadata{Title: "Dataset"}, cube.URIStyleStandard,
		&cube.Column{Title: "d", Definition: &cube.NewDimension{Label: "d"}},
		&cube.Column{Title: "Value", Definition: &cube.ObservationValue{Measure: &cube.NewMeasure{Label: "m"}}},
	))

	b, err := json.Marshal(m)
	is.NoErr(err)

	doc := string(b)
	is.True(strings.HasPrefix(doc, expectedMetadataPrefix))
	is.True(strings.Contains(doc, `"rdfs:seeAlso":[{"@id":"dataset.csv#dataset"`))
	is.True(strings.Contains(doc, `"virtual":true`))
}

func setupTest(t *testing.T, c *cube.Cube) (*is.I, *Metadata) {
	is := is.New(t)

	g, err := dsd.Assemble(c)
	is.NoErr(err)

	h, err := urihelper.New(c)
	is.NoErr(err)

	m, err := NewMetadata(c, g, h)
	is.NoErr(err)

	return is, m
}

func column(schema TableSchema, name string) Column {
	for _, c := range schema.Columns {
		if c.Name == name {
			return c
		}
	}
	return Column{}
}

const expectedSexCodeListCSV string = "Label,Notation,Parent Notation,Sort Priority,Description\nFemale,female,,0,\nMale,male,,1,\n"

const expectedMetadataPrefix string = `{"@context":"http://www.w3.org/ns/csvw","@id":"dataset.csv#dataset","tables":[{"url":"dataset.csv","tableSchema":{"columns":[{"titles":"d","name":"d","aboutUrl":"dataset.csv#slice/{d}","propertyUrl":"dataset.csv#dimension/d","valueUrl":"{+d}","required":true}`
