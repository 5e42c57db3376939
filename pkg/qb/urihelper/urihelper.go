// Package urihelper resolves the property, value and about urls of a cube's
// columns. The rules depend on the shape of the cube.
package urihelper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/diwise/csvcube/pkg/identifiers"
	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/csvcube/pkg/qb/uris"
	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
)

type Helper struct {
	cube  *cube.Cube
	uris  uris.Generator
	shape cube.Shape

	byTitle      map[string]*cube.Column
	observations []*cube.Column
	dimensions   []*cube.Column
}

// New indexes the cube's columns once. It fails if the shape of the cube
// cannot be determined.
func New(c *cube.Cube) (*Helper, error) {
	shape, err := c.Shape()
	if err != nil {
		return nil, err
	}

	h := &Helper{
		cube:         c,
		uris:         uris.ForCube(c),
		shape:        shape,
		byTitle:      make(map[string]*cube.Column, len(c.Columns)),
		observations: c.ObservationColumns(),
	}

	for _, col := range c.Columns {
		h.byTitle[col.Title] = col
		if _, ok := col.Definition.(cube.Dimension); ok {
			h.dimensions = append(h.dimensions, col)
		}
	}

	return h, nil
}

func (h *Helper) Cube() *cube.Cube {
	return h.cube
}

func (h *Helper) Shape() cube.Shape {
	return h.shape
}

func (h *Helper) URIs() uris.Generator {
	return h.uris
}

// DimensionColumns returns the Dimension columns in declaration order
func (h *Helper) DimensionColumns() []*cube.Column {
	return h.dimensions
}

// ObservationColumns returns the ObservationValue columns in declaration order
func (h *Helper) ObservationColumns() []*cube.Column {
	return h.observations
}

func (h *Helper) ColumnByTitle(title string) (*cube.Column, bool) {
	col, ok := h.byTitle[title]
	return col, ok
}

func columnTemplate(col *cube.Column) string {
	return uris.ColumnTemplate(col.CSVName())
}

func escapedColumnTemplate(col *cube.Column) string {
	return uris.EscapedColumnTemplate(col.CSVName())
}

// DimensionIdentifier is the local id of a dimension column's component
func (h *Helper) DimensionIdentifier(col *cube.Column) string {
	if d, ok := col.Definition.(*cube.NewDimension); ok {
		return d.Identifier()
	}
	return identifiers.Slugify(col.Title)
}

// AttributeIdentifier is the local id of an attribute column's component and values
func (h *Helper) AttributeIdentifier(col *cube.Column) string {
	if a, ok := col.Definition.(*cube.NewAttribute); ok {
		return a.Identifier()
	}
	return identifiers.Slugify(col.Title)
}

func (h *Helper) DimensionURI(col *cube.Column) string {
	switch d := col.Definition.(type) {
	case *cube.ExistingDimension:
		return d.URI
	case *cube.NewDimension:
		return h.uris.Dimension(d.Identifier())
	}
	return ""
}

func (h *Helper) AttributeURI(col *cube.Column) string {
	switch a := col.Definition.(type) {
	case *cube.ExistingAttribute:
		return a.URI
	case *cube.NewAttribute:
		return h.uris.Attribute(a.Identifier())
	}
	return ""
}

func (h *Helper) AttributeValueURI(col *cube.Column, value *cube.AttributeValue) string {
	return h.uris.AttributeValue(h.AttributeIdentifier(col), value.Identifier())
}

func (h *Helper) MeasureURI(m cube.Measure) string {
	switch measure := m.(type) {
	case *cube.ExistingMeasure:
		return measure.URI
	case *cube.NewMeasure:
		return h.uris.Measure(measure.Identifier())
	}
	return ""
}

func (h *Helper) UnitURI(u cube.Unit) string {
	switch unit := u.(type) {
	case *cube.ExistingUnit:
		return unit.URI
	case *cube.NewUnit:
		return h.uris.Unit(unit.Identifier())
	}
	return ""
}

// CodeListGenerator returns the uri generator of a local code list's own document
func (h *Helper) CodeListGenerator(cl cube.LocalCodeList) uris.Generator {
	return h.uris.CodeList(cl.Identifier())
}

// ConceptSchemeURI returns the scheme uri of any kind of code list
func (h *Helper) ConceptSchemeURI(cl cube.CodeList) string {
	switch codeList := cl.(type) {
	case *cube.ExistingCodeList:
		return codeList.ConceptSchemeURI
	case *cube.NewCodeListInCSVW:
		return codeList.SchemeURI
	case cube.LocalCodeList:
		return h.CodeListGenerator(codeList).ConceptScheme()
	}
	return ""
}

// ConceptTemplate is the value url template of a column whose values are concepts of cl
func (h *Helper) ConceptTemplate(col *cube.Column, cl cube.CodeList) string {
	switch codeList := cl.(type) {
	case *cube.ExistingCodeList:
		return ExistingCodeListConceptTemplate(codeList.ConceptSchemeURI, columnTemplate(col))
	case *cube.NewCodeListInCSVW:
		return ExistingCodeListConceptTemplate(codeList.SchemeURI, columnTemplate(col))
	case cube.LocalCodeList:
		return h.CodeListGenerator(codeList).Concept(columnTemplate(col))
	}
	return columnTemplate(col)
}

var (
	conceptSchemePathPattern = regexp.MustCompile(`^(.+)/concept-scheme/([^/#]+)/?$`)
	schemeFragmentPattern    = regexp.MustCompile(`^(.+)#scheme/([^/#]+)$`)
	codeListFragmentPattern  = regexp.MustCompile(`^(.+)#code-list$`)
)

// ExistingCodeListConceptTemplate guesses the concept uri template of an
// existing code list from the shape of its scheme uri. Unrecognised schemes
// fall back to the bare column template.
func ExistingCodeListConceptTemplate(schemeURI, columnTemplate string) string {
	if m := conceptSchemePathPattern.FindStringSubmatch(schemeURI); m != nil {
		return fmt.Sprintf("%s/concept-scheme/%s/%s", m[1], m[2], columnTemplate)
	}

	if m := schemeFragmentPattern.FindStringSubmatch(schemeURI); m != nil {
		return fmt.Sprintf("%s#concept/%s/%s", m[1], m[2], columnTemplate)
	}

	if m := codeListFragmentPattern.FindStringSubmatch(schemeURI); m != nil {
		return fmt.Sprintf("%s#%s", m[1], columnTemplate)
	}

	return columnTemplate
}

// PropertyURL returns the property url of a column
func (h *Helper) PropertyURL(col *cube.Column) (string, error) {
	switch d := col.Definition.(type) {
	case cube.Dimension:
		return h.DimensionURI(col), nil
	case cube.Attribute:
		return h.AttributeURI(col), nil
	case *cube.MultiUnits:
		return vocabulary.SDMXUnitMeasure, nil
	case *cube.MultiMeasureDimension:
		return vocabulary.QBMeasureType, nil
	case *cube.ObservationValue:
		if h.shape == cube.ShapePivoted {
			return h.MeasureURI(d.Measure), nil
		}
		return h.standardMeasureTemplate()
	}

	return "", errors.NewInvalidCubeError("column %q has an unsupported structural definition %T", col.Title, col.Definition)
}

// DefaultValueURL returns the value url a column gets when it has no explicit
// template. Observation and literal attribute columns have no value url.
func (h *Helper) DefaultValueURL(col *cube.Column) (string, error) {
	switch d := col.Definition.(type) {
	case *cube.ExistingDimension:
		return columnTemplate(col), nil

	case *cube.NewDimension:
		if d.CodeList == nil {
			return columnTemplate(col), nil
		}
		return h.ConceptTemplate(col, d.CodeList), nil

	case cube.Attribute:
		if d.Datatype() != "" {
			return "", nil
		}
		if len(d.Values()) > 0 {
			return h.uris.AttributeValue(h.AttributeIdentifier(col), columnTemplate(col)), nil
		}
		if na, ok := d.(*cube.NewAttribute); ok && na.CodeList != nil {
			return h.ConceptTemplate(col, na.CodeList), nil
		}
		return columnTemplate(col), nil

	case *cube.MultiUnits:
		switch {
		case d.AllNew():
			return h.uris.Unit(columnTemplate(col)), nil
		case d.AllExisting():
			return columnTemplate(col), nil
		}
		return "", errors.NewStructuralConflictError("column %q mixes new and existing units", col.Title)

	case *cube.MultiMeasureDimension:
		switch {
		case d.AllNew():
			return h.uris.Measure(columnTemplate(col)), nil
		case d.AllExisting():
			return "", errors.NewUnresolvableValueURLError(
				"column %q holds existing measures and needs an explicit cell uri template", col.Title,
			)
		}
		return "", errors.NewStructuralConflictError("column %q mixes new and existing measures", col.Title)

	case *cube.ObservationValue:
		return "", nil
	}

	return "", errors.NewInvalidCubeError("column %q has an unsupported structural definition %T", col.Title, col.Definition)
}

// DefaultPropertyURLAndValueURL returns the property url and default value url of a column
func (h *Helper) DefaultPropertyURLAndValueURL(col *cube.Column) (string, string, error) {
	propertyURL, err := h.PropertyURL(col)
	if err != nil {
		return "", "", err
	}

	valueURL, err := h.DefaultValueURL(col)
	if err != nil {
		return "", "", err
	}

	return propertyURL, valueURL, nil
}

// ValueURL returns the explicit cell template of the column if there is one,
// otherwise the default value url.
func (h *Helper) ValueURL(col *cube.Column) (string, error) {
	if col.CSVColumnURITemplate != "" {
		return col.CSVColumnURITemplate, nil
	}
	return h.DefaultValueURL(col)
}

func (h *Helper) measureColumn() (*cube.Column, error) {
	columns := cube.ColumnsOfType[*cube.MultiMeasureDimension](h.cube)
	if len(columns) != 1 {
		return nil, errors.NewInvalidCubeError("standard shaped cubes must have exactly one measure dimension column")
	}
	return columns[0], nil
}

func (h *Helper) standardMeasureTemplate() (string, error) {
	col, err := h.measureColumn()
	if err != nil {
		return "", err
	}
	return h.ValueURL(col)
}

func (h *Helper) dimensionTemplates() string {
	templates := make([]string, 0, len(h.dimensions))
	for _, col := range h.dimensions {
		templates = append(templates, escapedColumnTemplate(col))
	}
	return strings.Join(templates, ",")
}

// ObservationURI returns the uri template of the observation held by an
// observation column of a pivoted cube: every dimension value followed by
// the measure identifier.
func (h *Helper) ObservationURI(obsColumn *cube.Column) (string, error) {
	obs, ok := obsColumn.Definition.(*cube.ObservationValue)
	if !ok {
		return "", errors.NewInvalidCubeError("column %q is not an observation column", obsColumn.Title)
	}

	if h.shape != cube.ShapePivoted {
		return h.StandardObservationURI()
	}

	return h.uris.Observation(h.dimensionTemplates() + "@" + obs.Measure.Identifier()), nil
}

// StandardObservationURI returns the uri template shared by every
// observation of a standard shaped cube. The measure varies per row so the
// measure column's template follows the dimension values.
func (h *Helper) StandardObservationURI() (string, error) {
	col, err := h.measureColumn()
	if err != nil {
		return "", err
	}

	return h.uris.Observation(h.dimensionTemplates() + "@" + escapedColumnTemplate(col)), nil
}

// SliceURI returns the uri template of the slice grouping the observations
// that share dimension values in a pivoted cube
func (h *Helper) SliceURI() string {
	return h.uris.Slice(h.dimensionTemplates())
}

// ObservationColumnFor resolves the observation column that an attribute or
// units column describes. The title may be omitted when the cube has exactly
// one observation column.
func (h *Helper) ObservationColumnFor(col *cube.Column) (*cube.Column, error) {
	var title string

	switch d := col.Definition.(type) {
	case cube.Attribute:
		title = d.DescribesObservationColumn()
	case *cube.MultiUnits:
		title = d.ObservedValueColumnTitle
	default:
		return nil, errors.NewInvalidCubeError("column %q does not describe observations", col.Title)
	}

	if title == "" {
		if len(h.observations) == 1 {
			return h.observations[0], nil
		}
		return nil, errors.NewMissingObservationBackReferenceError(
			"column %q must name the observation column it describes since the cube has %d of them",
			col.Title, len(h.observations),
		)
	}

	target, ok := h.byTitle[title]
	if !ok {
		return nil, errors.NewMissingObservationBackReferenceError(
			"column %q describes observation column %q which does not exist", col.Title, title,
		)
	}

	if _, ok := target.Definition.(*cube.ObservationValue); !ok {
		return nil, errors.NewMissingObservationBackReferenceError(
			"column %q describes column %q which is not an observation column", col.Title, title,
		)
	}

	return target, nil
}

// AboutURL returns the about url of a column. In standard shaped cubes every
// column is about the shared observation and the empty string is returned,
// so that the table schema's about url applies.
func (h *Helper) AboutURL(col *cube.Column) (string, error) {
	switch col.Definition.(type) {
	case cube.Attribute, *cube.MultiUnits:
		obsColumn, err := h.ObservationColumnFor(col)
		if err != nil {
			return "", err
		}
		if h.shape == cube.ShapeStandard {
			return "", nil
		}
		return h.ObservationURI(obsColumn)

	case *cube.ObservationValue:
		if h.shape == cube.ShapeStandard {
			return "", nil
		}
		return h.ObservationURI(col)

	case cube.Dimension:
		if h.shape == cube.ShapeStandard {
			return "", nil
		}
		return h.SliceURI(), nil
	}

	return "", nil
}

// TableAboutURL is the about url of the whole table schema
func (h *Helper) TableAboutURL() (string, error) {
	if h.shape == cube.ShapePivoted {
		return h.SliceURI(), nil
	}
	return h.StandardObservationURI()
}
