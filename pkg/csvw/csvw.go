// Package csvw emits the CSV-W metadata documents that bind the CSV files of
// a cube and its code lists to their qb and skos graphs.
package csvw

import (
	"context"

	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/dsd"
	"github.com/diwise/csvcube/pkg/qb/urihelper"
	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("csvcube/csvw")

const MetadataContentType string = "application/csvm+json"

// Metadata is a CSV-W table group description with the DSD graph attached
// through rdfs:seeAlso
type Metadata struct {
	Context string  `json:"@context"`
	ID      string  `json:"@id"`
	Tables  []Table `json:"tables"`
	SeeAlso any     `json:"rdfs:seeAlso,omitempty"`
}

type Table struct {
	URL         string      `json:"url"`
	TableSchema TableSchema `json:"tableSchema"`
}

type TableSchema struct {
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreignKeys,omitempty"`
	PrimaryKey  []string     `json:"primaryKey,omitempty"`
	AboutURL    string       `json:"aboutUrl,omitempty"`
}

type Column struct {
	Titles         string `json:"titles,omitempty"`
	Name           string `json:"name"`
	SuppressOutput bool   `json:"suppressOutput,omitempty"`
	Virtual        bool   `json:"virtual,omitempty"`
	AboutURL       string `json:"aboutUrl,omitempty"`
	PropertyURL    string `json:"propertyUrl,omitempty"`
	ValueURL       string `json:"valueUrl,omitempty"`
	Datatype       string `json:"datatype,omitempty"`
	Required       bool   `json:"required,omitempty"`
}

type ForeignKey struct {
	ColumnReference string    `json:"columnReference"`
	Reference       Reference `json:"reference"`
}

type Reference struct {
	Resource        string `json:"resource"`
	ColumnReference string `json:"columnReference"`
}

// CSVFileName is the name of the CSV file a document identifier describes
func CSVFileName(identifier string) string {
	return identifier + ".csv"
}

// MetadataFileName is the conventional name of the CSV-W document of a CSV file
func MetadataFileName(identifier string) string {
	return CSVFileName(identifier) + "-metadata.json"
}

func NewMetadata(c *cube.Cube, g *dsd.Graph, h *urihelper.Helper) (*Metadata, error) {
	return NewMetadataContext(context.Background(), c, g, h)
}

// NewMetadataContext builds the CSV-W document of a cube from its assembled graph
func NewMetadataContext(ctx context.Context, c *cube.Cube, g *dsd.Graph, h *urihelper.Helper) (m *Metadata, err error) {
	_, span := tracer.Start(ctx, "emit-csvw", trace.WithAttributes(
		attribute.String("cube", c.Identifier()),
		attribute.String("shape", h.Shape().String()),
	))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	columns := make([]Column, 0, len(c.Columns))

	for _, col := range c.Columns {
		var column Column
		column, err = newColumn(h, col)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}

	var virtual []Column
	if h.Shape() == cube.ShapePivoted {
		virtual, err = pivotedVirtualColumns(h)
	} else {
		virtual, err = standardVirtualColumns(h)
	}
	if err != nil {
		return nil, err
	}

	aboutURL, err := h.TableAboutURL()
	if err != nil {
		return nil, err
	}

	m = &Metadata{
		Context: vocabulary.CSVWContext,
		ID:      h.URIs().Dataset(),
		Tables: []Table{{
			URL: CSVFileName(c.Identifier()),
			TableSchema: TableSchema{
				Columns:     append(columns, virtual...),
				ForeignKeys: foreignKeys(h),
				PrimaryKey:  primaryKey(c),
				AboutURL:    aboutURL,
			},
		}},
		SeeAlso: g,
	}

	return m, nil
}

func newColumn(h *urihelper.Helper, col *cube.Column) (Column, error) {
	column := Column{
		Titles: col.Title,
		Name:   col.CSVName(),
	}

	if col.SuppressOutput {
		column.SuppressOutput = true
		return column, nil
	}

	var err error

	column.PropertyURL, err = h.PropertyURL(col)
	if err != nil {
		return column, err
	}

	column.ValueURL, err = h.ValueURL(col)
	if err != nil {
		return column, err
	}

	column.AboutURL, err = h.AboutURL(col)
	if err != nil {
		return column, err
	}

	switch d := col.Definition.(type) {
	case *cube.ObservationValue:
		column.Datatype = d.Datatype()
	case cube.Attribute:
		column.Datatype = d.Datatype()
	}

	column.Required = IsRequired(h.Cube(), h.Shape(), col)

	return column, nil
}

// IsRequired decides whether every row must have a value in col.
// Required attributes are relaxed in pivoted cubes with several observation
// columns, since a row may lack some of the observations they describe.
// Observations are optional when an obsStatus attribute can explain their absence.
func IsRequired(c *cube.Cube, shape cube.Shape, col *cube.Column) bool {
	switch d := col.Definition.(type) {
	case cube.Dimension, *cube.MultiUnits, *cube.MultiMeasureDimension:
		return true
	case cube.Attribute:
		if !d.Required() {
			return false
		}
		return shape != cube.ShapePivoted || len(c.ObservationColumns()) <= 1
	case *cube.ObservationValue:
		return !hasObsStatusAttribute(c)
	}
	return false
}

func hasObsStatusAttribute(c *cube.Cube) bool {
	for _, col := range c.Columns {
		switch d := col.Definition.(type) {
		case *cube.ExistingAttribute:
			if d.URI == vocabulary.SDMXObsStatus {
				return true
			}
		case *cube.NewAttribute:
			if d.ParentURI == vocabulary.SDMXObsStatus {
				return true
			}
		}
	}
	return false
}

func virtualColumn(name, aboutURL, propertyURL, valueURL string) Column {
	return Column{
		Name:        name,
		Virtual:     true,
		AboutURL:    aboutURL,
		PropertyURL: propertyURL,
		ValueURL:    valueURL,
	}
}

// pivotedVirtualColumns describes the slice of each row once and then every
// observation of the row, one set of columns per observation column
func pivotedVirtualColumns(h *urihelper.Helper) ([]Column, error) {
	u := h.URIs()
	slice := h.SliceURI()

	columns := []Column{
		virtualColumn("virt_slice", slice, vocabulary.RDFType, vocabulary.QBSlice),
		virtualColumn("virt_slice_structure", slice, vocabulary.QBSliceStructure, u.SliceKey()),
		virtualColumn("virt_dataset_slice", u.Dataset(), vocabulary.QBSliceProperty, slice),
	}

	for _, obsColumn := range h.ObservationColumns() {
		obs := obsColumn.Definition.(*cube.ObservationValue)
		suffix := "_" + obsColumn.CSVName()

		obsURI, err := h.ObservationURI(obsColumn)
		if err != nil {
			return nil, err
		}

		columns = append(columns,
			virtualColumn("virt_slice"+suffix, slice, vocabulary.QBObservationLinkage, obsURI),
			virtualColumn("virt_measure_type"+suffix, obsURI, vocabulary.QBMeasureType, h.MeasureURI(obs.Measure)),
		)

		if obs.Unit != nil {
			columns = append(columns, virtualColumn("virt_unit"+suffix, obsURI, vocabulary.SDMXUnitMeasure, h.UnitURI(obs.Unit)))
		}

		for _, dimColumn := range h.DimensionColumns() {
			valueURL, err := h.ValueURL(dimColumn)
			if err != nil {
				return nil, err
			}
			columns = append(columns, virtualColumn(
				"virt_dim"+suffix+"_"+dimColumn.CSVName(), obsURI, h.DimensionURI(dimColumn), valueURL,
			))
		}

		columns = append(columns,
			virtualColumn("virt_type"+suffix, obsURI, vocabulary.RDFType, vocabulary.QBObservation),
			virtualColumn("virt_dataset"+suffix, obsURI, vocabulary.QBDataSetProperty, u.Dataset()),
		)
	}

	return columns, nil
}

// standardVirtualColumns describes the single observation of each row. The
// table schema's about url applies to all of them.
func standardVirtualColumns(h *urihelper.Helper) ([]Column, error) {
	columns := []Column{
		virtualColumn("virt_type", "", vocabulary.RDFType, vocabulary.QBObservation),
		virtualColumn("virt_dataset", "", vocabulary.QBDataSetProperty, h.URIs().Dataset()),
	}

	for _, obsColumn := range h.ObservationColumns() {
		obs := obsColumn.Definition.(*cube.ObservationValue)
		if obs.Unit != nil {
			columns = append(columns, virtualColumn("virt_unit", "", vocabulary.SDMXUnitMeasure, h.UnitURI(obs.Unit)))
		}
	}

	return columns, nil
}

// foreignKeys links every dimension column backed by a local code list to
// the notation column of the code list's CSV file
func foreignKeys(h *urihelper.Helper) []ForeignKey {
	keys := []ForeignKey{}

	for _, col := range h.DimensionColumns() {
		d, ok := col.Definition.(*cube.NewDimension)
		if !ok {
			continue
		}

		local, ok := d.CodeList.(cube.LocalCodeList)
		if !ok {
			continue
		}

		keys = append(keys, ForeignKey{
			ColumnReference: col.CSVName(),
			Reference: Reference{
				Resource:        CSVFileName(local.Identifier()),
				ColumnReference: NotationColumn,
			},
		})
	}

	return keys
}

func primaryKey(c *cube.Cube) []string {
	key := []string{}
	for _, col := range c.Columns {
		switch col.Definition.(type) {
		case cube.Dimension, *cube.MultiMeasureDimension:
			key = append(key, col.CSVName())
		}
	}
	return key
}
