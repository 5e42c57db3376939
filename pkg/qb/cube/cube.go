package cube

import (
	goerrors "errors"

	"github.com/diwise/csvcube/pkg/identifiers"
	"github.com/diwise/csvcube/pkg/qb/errors"
)

// URIStyle decides whether generated document identifiers carry a .csv suffix
type URIStyle int

const (
	URIStyleStandard URIStyle = iota
	URIStyleWithoutExtensions
)

func (s URIStyle) String() string {
	if s == URIStyleWithoutExtensions {
		return "WithoutExtensions"
	}
	return "Standard"
}

// Shape is the layout used for multiple measures
type Shape int

const (
	// ShapeStandard cubes have one observation column and a measure dimension column
	ShapeStandard Shape = iota
	// ShapePivoted cubes have one observation column per measure
	ShapePivoted
)

func (s Shape) String() string {
	if s == ShapePivoted {
		return "Pivoted"
	}
	return "Standard"
}

type Column struct {
	Title      string
	Definition StructuralDefinition
	// CSVColumnURITemplate overrides the value url the column would otherwise get
	CSVColumnURITemplate string
	SuppressOutput       bool
}

// CSVName is the name of the column in the CSV-W table schema
func (c *Column) CSVName() string {
	return identifiers.CSVWColumnName(c.Title)
}

type Cube struct {
	Metadata CatalogMetadata
	Columns  []*Column
	URIStyle URIStyle

	identifier string
}

// New creates a cube and fixes its uri safe identifier for the life of the cube
func New(metadata CatalogMetadata, style URIStyle, columns ...*Column) *Cube {
	return &Cube{
		Metadata:   metadata,
		Columns:    columns,
		URIStyle:   style,
		identifier: metadata.URISafeIdentifier(),
	}
}

// Identifier is the uri safe identifier every generated uri is relative to
func (c *Cube) Identifier() string {
	if c.identifier == "" {
		return c.Metadata.URISafeIdentifier()
	}
	return c.identifier
}

func (c *Cube) ColumnByTitle(title string) (*Column, bool) {
	for _, col := range c.Columns {
		if col.Title == title {
			return col, true
		}
	}
	return nil, false
}

// ColumnsOfType returns the columns whose definition is a T, in declaration order
func ColumnsOfType[T StructuralDefinition](c *Cube) []*Column {
	columns := []*Column{}
	for _, col := range c.Columns {
		if _, ok := col.Definition.(T); ok {
			columns = append(columns, col)
		}
	}
	return columns
}

func (c *Cube) ObservationColumns() []*Column {
	return ColumnsOfType[*ObservationValue](c)
}

// Shape derives the layout from the observation columns. Cubes where some,
// but not all, observation columns name a measure are rejected.
func (c *Cube) Shape() (Shape, error) {
	observations := c.ObservationColumns()
	if len(observations) == 0 {
		return ShapeStandard, errors.NewInvalidCubeError("cube %q has no observation column", c.Metadata.Title)
	}

	withMeasure := 0
	for _, col := range observations {
		if col.Definition.(*ObservationValue).Measure != nil {
			withMeasure++
		}
	}

	switch withMeasure {
	case len(observations):
		return ShapePivoted, nil
	case 0:
		return ShapeStandard, nil
	}

	return ShapeStandard, errors.NewStructuralConflictError(
		"cube %q mixes observation columns with and without a measure", c.Metadata.Title,
	)
}

// Validate returns every structural error found in the cube
func (c *Cube) Validate() []error {
	errs := []error{}

	if c.Identifier() == "" {
		errs = append(errs, errors.NewInvalidCubeError("cube has neither title nor identifier"))
	}

	if len(c.Columns) == 0 {
		return append(errs, errors.NewInvalidCubeError("cube %q has no columns", c.Metadata.Title))
	}

	titles := map[string]struct{}{}
	allTitles := []string{}

	for _, col := range c.Columns {
		if col.Title == "" {
			errs = append(errs, errors.NewInvalidCubeError("cube %q has a column without a title", c.Metadata.Title))
			continue
		}

		if _, ok := titles[col.Title]; ok {
			errs = append(errs, errors.NewInvalidCubeError("column title %q is not unique", col.Title))
		}
		titles[col.Title] = struct{}{}
		allTitles = append(allTitles, col.Title)

		if col.Definition == nil {
			errs = append(errs, errors.NewInvalidCubeError("column %q has no structural definition", col.Title))
			continue
		}

		for _, err := range col.Definition.ValidateStructure() {
			errs = append(errs, wrapColumnError(col, err))
		}
	}

	if err := identifiers.EnsureUniqueSlugs(allTitles); err != nil {
		errs = append(errs, errors.NewStructuralConflictError("column names: %s", err.Error()))
	}

	errs = append(errs, c.validateLocalIdentifiers()...)
	errs = append(errs, c.validateShape()...)

	return errs
}

// ValidateData checks each column's cell values, keyed by column title
func (c *Cube) ValidateData(values map[string][]string) []error {
	errs := []error{}
	for _, col := range c.Columns {
		cells, ok := values[col.Title]
		if !ok || col.Definition == nil {
			continue
		}
		for _, err := range col.Definition.ValidateData(cells) {
			errs = append(errs, wrapColumnError(col, err))
		}
	}
	return errs
}

func (c *Cube) validateShape() []error {
	shape, err := c.Shape()
	if err != nil {
		return []error{err}
	}

	measureColumns := ColumnsOfType[*MultiMeasureDimension](c)

	if shape == ShapePivoted {
		if len(measureColumns) > 0 {
			return []error{errors.NewStructuralConflictError(
				"column %q: pivoted cubes name their measures on the observation columns and cannot have a measure dimension",
				measureColumns[0].Title,
			)}
		}
		return nil
	}

	errs := []error{}

	if len(c.ObservationColumns()) != 1 {
		errs = append(errs, errors.NewInvalidCubeError("standard shaped cubes must have exactly one observation column"))
	}

	if len(measureColumns) != 1 {
		errs = append(errs, errors.NewInvalidCubeError("standard shaped cubes must have exactly one measure dimension column"))
	}

	return errs
}

// validateLocalIdentifiers makes sure two components, measures or code lists do
// not end up with the same uri, and that no code list document takes the name
// of the cube's own document
func (c *Cube) validateLocalIdentifiers() []error {
	errs := []error{}
	seen := map[string]string{}

	claim := func(kind, id, title string) {
		key := kind + "/" + id
		if other, ok := seen[key]; ok {
			errs = append(errs, errors.NewStructuralConflictError(
				"columns %q and %q both define the %s %q", other, title, kind, id,
			))
			return
		}
		seen[key] = title
	}

	codeLists := map[string]LocalCodeList{}

	claimCodeList := func(cl CodeList, title string) {
		local, ok := cl.(LocalCodeList)
		if !ok {
			return
		}

		id := local.Identifier()
		if id == c.Identifier() {
			errs = append(errs, errors.NewStructuralConflictError(
				"column %q: code list %q has the same identifier as the cube", title, id,
			))
			return
		}

		// columns may share one code list
		if other, ok := codeLists[id]; ok && other == local {
			return
		}

		codeLists[id] = local
		claim("code list", id, title)
	}

	for _, col := range c.Columns {
		switch d := col.Definition.(type) {
		case *NewDimension:
			claim("dimension", d.Identifier(), col.Title)
			claimCodeList(d.CodeList, col.Title)
		case *NewAttribute:
			claim("attribute", d.Identifier(), col.Title)
			claimCodeList(d.CodeList, col.Title)
		case *ObservationValue:
			if d.Measure != nil {
				claim("measure", d.Measure.Identifier(), col.Title)
			}
		case *MultiMeasureDimension:
			for _, m := range d.Measures {
				claim("measure", m.Identifier(), col.Title)
			}
		}
	}

	return errs
}

type columnError struct {
	column string
	err    error
}

func (ce columnError) Error() string { return "column " + ce.column + ": " + ce.err.Error() }
func (ce columnError) Unwrap() error { return ce.err }

func wrapColumnError(col *Column, err error) error {
	return columnError{column: col.Title, err: err}
}

func joinErrors(errs []error) error {
	return goerrors.Join(errs...)
}
