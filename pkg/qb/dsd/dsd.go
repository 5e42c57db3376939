// Package dsd assembles the qb data structure definition of a cube together
// with the catalog metadata and the concept schemes of its local code lists.
package dsd

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/csvcube/pkg/qb/urihelper"
	"github.com/diwise/csvcube/pkg/qb/uris"
	"github.com/diwise/csvcube/pkg/rdf"
	. "github.com/diwise/csvcube/pkg/rdf/vocabulary"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("csvcube/qb/dsd")

const (
	UnitComponentIdentifier        string = "unit"
	MeasureTypeComponentIdentifier string = "measure-type"
)

// Graph is the result of a successful assembly
type Graph struct {
	Dataset       *rdf.Resource
	CatalogRecord *rdf.Resource
	Structure     *rdf.Resource
	// SliceKey is only set for pivoted cubes
	SliceKey *rdf.Resource
	// Components holds the component specifications in qb:order
	Components []*rdf.Resource
	// ComponentProperties holds the distinct component property uris in the order first seen
	ComponentProperties []string
	// Resources holds every node above plus the property, unit, attribute value and class nodes
	Resources *rdf.Graph
	CodeLists []*CodeListGraph
}

func (g *Graph) CodeList(identifier string) (*CodeListGraph, bool) {
	for _, cl := range g.CodeLists {
		if cl.CodeList.Identifier() == identifier {
			return cl, true
		}
	}
	return nil, false
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	return g.Resources.MarshalJSON()
}

// Assemble builds the DSD graph of a cube. All fatal problems are reported
// together and no graph is returned when there is any.
func Assemble(c *cube.Cube) (*Graph, error) {
	return AssembleContext(context.Background(), c)
}

func AssembleContext(ctx context.Context, c *cube.Cube) (g *Graph, err error) {
	_, span := tracer.Start(ctx, "assemble-dsd", trace.WithAttributes(
		attribute.String("cube", c.Identifier()),
		attribute.Int("columns", len(c.Columns)),
	))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if errs := c.Validate(); len(errs) > 0 {
		err = goerrors.Join(errs...)
		return nil, err
	}

	helper, err := urihelper.New(c)
	if err != nil {
		return nil, err
	}

	g, err = newAssembler(helper).assemble()
	return g, err
}

type assembler struct {
	helper *urihelper.Helper
	uris   uris.Generator
	graph  *Graph

	ordinal int
	// components maps a component property uri to its specification
	components map[string]*rdf.Resource
	// componentOwners maps a component specification uri to its property uri
	componentOwners map[string]string
	sliceProperties []string
	units           map[string]struct{}

	errs []error
}

func newAssembler(helper *urihelper.Helper) *assembler {
	u := helper.URIs()

	return &assembler{
		helper:     helper,
		uris:       u,
		graph:      &Graph{Resources: rdf.NewGraph()},
		components: map[string]*rdf.Resource{},
		componentOwners: map[string]string{
			u.Component(UnitComponentIdentifier):        SDMXUnitMeasure,
			u.Component(MeasureTypeComponentIdentifier): QBMeasureType,
		},
		units: map[string]struct{}{},
	}
}

func (a *assembler) assemble() (*Graph, error) {
	a.addCatalog()

	for _, col := range a.helper.Cube().Columns {
		a.addColumn(col)
	}

	if a.helper.Shape() == cube.ShapePivoted {
		a.addSliceKey()
	}

	if len(a.errs) > 0 {
		return nil, goerrors.Join(a.errs...)
	}

	return a.graph, nil
}

func (a *assembler) fail(errs ...error) {
	a.errs = append(a.errs, errs...)
}

func (a *assembler) add(id string, decorators ...rdf.ResourceDecoratorFunc) *rdf.Resource {
	return a.graph.Resources.Add(rdf.New(id, decorators...))
}

func (a *assembler) place(carrier cube.ArbitraryRDFCarrier, owner string, points ...AttachmentPoint) {
	a.fail(PlaceFragments(carrier, owner, NewAttachmentPoints(points...))...)
}

func (a *assembler) addCatalog() {
	meta := a.helper.Cube().Metadata

	decorators := append([]rdf.ResourceDecoratorFunc{
		rdf.Type(QBDataSet),
		rdf.Type(DCATDataset),
		rdf.R(QBStructure, a.uris.Structure()),
	}, catalogDecorators(meta)...)

	a.graph.Dataset = a.add(a.uris.Dataset(), decorators...)
	a.graph.CatalogRecord = a.add(a.uris.CatalogRecord(), catalogRecordDecorators(meta, a.uris.Dataset())...)
	a.graph.Structure = a.add(a.uris.Structure(), rdf.Type(QBDataStructureDefinition))

	a.place(meta, "catalog metadata", Attach(cube.HintCatalogDataset, a.graph.Dataset))
}

// addComponent returns the component specification of a component property,
// creating it with the next ordinal the first time the property is seen
func (a *assembler) addComponent(id, rolePredicate, propertyURI string, decorators ...rdf.ResourceDecoratorFunc) *rdf.Resource {
	if existing, ok := a.components[propertyURI]; ok {
		return existing
	}

	uri := a.componentURI(id, rolePredicate, propertyURI)

	a.ordinal++

	decorators = append([]rdf.ResourceDecoratorFunc{
		rdf.Type(QBComponentSpecification),
		rdf.L(QBOrder, rdf.Integer(a.ordinal)),
		rdf.R(rolePredicate, propertyURI),
		rdf.R(QBComponentProperty, propertyURI),
	}, decorators...)

	component := a.add(uri, decorators...)

	a.components[propertyURI] = component
	a.componentOwners[uri] = propertyURI
	a.graph.Components = append(a.graph.Components, component)
	a.graph.ComponentProperties = append(a.graph.ComponentProperties, propertyURI)
	a.graph.Structure.Add(QBComponent, rdf.IRI(uri))

	return component
}

var componentRoles = map[string]string{
	QBDimension: "dimension",
	QBAttribute: "attribute",
	QBMeasure:   "measure",
}

// componentURI names a component after its id. Ids taken by another property,
// or by one of the fixed components, get the role and then a counter appended.
func (a *assembler) componentURI(id, rolePredicate, propertyURI string) string {
	free := func(uri string) bool {
		owner, ok := a.componentOwners[uri]
		return !ok || owner == propertyURI
	}

	uri := a.uris.Component(id)
	if free(uri) {
		return uri
	}

	id = id + "-" + componentRoles[rolePredicate]
	uri = a.uris.Component(id)

	for n := 2; !free(uri); n++ {
		uri = a.uris.Component(fmt.Sprintf("%s-%d", id, n))
	}

	return uri
}

func (a *assembler) addColumn(col *cube.Column) {
	// the emitter relies on every column having a value url and a back reference
	if _, err := a.helper.ValueURL(col); err != nil {
		a.fail(err)
	}

	switch col.Definition.(type) {
	case cube.Attribute, *cube.MultiUnits:
		if _, err := a.helper.ObservationColumnFor(col); err != nil {
			a.fail(err)
		}
	}

	switch d := col.Definition.(type) {
	case *cube.ExistingDimension:
		a.addExistingDimension(col, d)
	case *cube.NewDimension:
		a.addNewDimension(col, d)
	case *cube.ExistingAttribute:
		a.addAttribute(col, d, nil)
	case *cube.NewAttribute:
		a.addAttribute(col, d, a.newAttributeProperty(col, d))
	case *cube.MultiUnits:
		a.addMultiUnits(col, d)
	case *cube.MultiMeasureDimension:
		for _, m := range d.Measures {
			a.addMeasure(col, m)
		}
	case *cube.ObservationValue:
		a.addObservationValue(col, d)
	default:
		a.fail(errors.NewInvalidCubeError("column %q has an unsupported structural definition %T", col.Title, col.Definition))
	}
}

func (a *assembler) addDimensionComponent(col *cube.Column, propertyURI string) *rdf.Resource {
	component := a.addComponent(a.helper.DimensionIdentifier(col), QBDimension, propertyURI)

	for _, p := range a.sliceProperties {
		if p == propertyURI {
			return component
		}
	}
	a.sliceProperties = append(a.sliceProperties, propertyURI)

	return component
}

func (a *assembler) addExistingDimension(col *cube.Column, d *cube.ExistingDimension) {
	component := a.addDimensionComponent(col, d.URI)

	if d.RangeURI != "" {
		a.add(d.URI, rdf.R(RDFSRange, d.RangeURI))
	}

	a.place(d, columnOwner(col), Attach(cube.HintComponent, component))
}

func (a *assembler) addNewDimension(col *cube.Column, d *cube.NewDimension) {
	propertyURI := a.helper.DimensionURI(col)
	component := a.addDimensionComponent(col, propertyURI)

	property := a.add(propertyURI,
		rdf.Type(RDFProperty),
		rdf.Type(QBDimensionProperty),
		rdf.Label(d.Label),
		rdf.Comment(d.Description),
		rdf.R(RDFSSubPropertyOf, d.ParentURI),
		rdf.R(RDFSIsDefinedBy, d.SourceURI),
	)

	if d.CodeList != nil {
		a.addCodedProperty(property, d.Identifier(), d.Label, d.CodeList)
	}

	a.place(d, columnOwner(col),
		Attach(cube.HintComponent, component),
		Attach(cube.HintProperty, property),
	)
}

// addCodedProperty links a property to the concept scheme of its code list and
// to a class of the concepts it takes as values
func (a *assembler) addCodedProperty(property *rdf.Resource, id, label string, cl cube.CodeList) {
	property.Add(RDFType, rdf.IRI(QBCodedProperty))
	property.Add(QBCodeList, rdf.IRI(a.helper.ConceptSchemeURI(cl)))

	class := a.add(a.uris.Class(id),
		rdf.Type(RDFSClass),
		rdf.Label(label),
		rdf.R(RDFSSubClassOf, SKOSConcept),
	)
	property.Add(RDFSRange, rdf.IRI(class.ID()))

	if local, ok := cl.(cube.LocalCodeList); ok {
		a.addCodeList(local)
	}
}

func (a *assembler) addCodeList(cl cube.LocalCodeList) {
	for _, clg := range a.graph.CodeLists {
		if clg.CodeList == cl {
			return
		}
	}

	clg, errs := AssembleCodeList(cl, a.helper.CodeListGenerator(cl))
	if len(errs) > 0 {
		a.fail(errs...)
		return
	}

	a.graph.CodeLists = append(a.graph.CodeLists, clg)
}

func (a *assembler) newAttributeProperty(col *cube.Column, d *cube.NewAttribute) *rdf.Resource {
	property := a.add(a.helper.AttributeURI(col),
		rdf.Type(RDFProperty),
		rdf.Type(QBAttributeProperty),
		rdf.Label(d.Label),
		rdf.Comment(d.Description),
		rdf.R(RDFSSubPropertyOf, d.ParentURI),
		rdf.R(RDFSIsDefinedBy, d.SourceURI),
	)

	if d.LiteralDatatype != "" {
		property.Add(RDFSRange, rdf.IRI(cube.DatatypeIRI(d.LiteralDatatype)))
	}

	if d.CodeList != nil {
		a.addCodedProperty(property, d.Identifier(), d.Label, d.CodeList)
	}

	return property
}

func (a *assembler) addAttribute(col *cube.Column, attr cube.Attribute, property *rdf.Resource) {
	component := a.addComponent(
		a.helper.AttributeIdentifier(col), QBAttribute, a.helper.AttributeURI(col),
		rdf.L(QBComponentRequired, rdf.Boolean(attr.Required())),
	)

	for _, v := range attr.Values() {
		node := a.add(a.helper.AttributeValueURI(col, v),
			rdf.Type(SKOSConcept),
			rdf.Label(v.Label),
			rdf.Comment(v.Description),
			rdf.R(SKOSBroader, v.ParentURI),
			rdf.R(RDFSIsDefinedBy, v.SourceURI),
		)

		a.place(v, fmt.Sprintf("value %q of %s", v.Label, columnOwner(col)),
			Attach(cube.HintAttributeValue, node),
		)
	}

	a.place(attr, columnOwner(col),
		Attach(cube.HintComponent, component),
		Attach(cube.HintProperty, property),
	)
}

func (a *assembler) addUnitComponent() {
	a.addComponent(UnitComponentIdentifier, QBAttribute, SDMXUnitMeasure,
		rdf.L(QBComponentRequired, rdf.Boolean(true)),
	)
}

func (a *assembler) addMultiUnits(col *cube.Column, d *cube.MultiUnits) {
	a.addUnitComponent()

	for _, u := range d.Units {
		a.addUnit(u)
	}
}

// addUnit adds the node of a new unit and, through its scaling, of any new base unit
func (a *assembler) addUnit(u cube.Unit) {
	nu, ok := u.(*cube.NewUnit)
	if !ok {
		return
	}

	uri := a.helper.UnitURI(nu)
	if _, seen := a.units[uri]; seen {
		return
	}
	a.units[uri] = struct{}{}

	node := a.add(uri,
		rdf.Type(QUDTUnit),
		rdf.Label(nu.Label),
		rdf.Comment(nu.Description),
	)

	if nu.Scaling != nil && nu.Scaling.BaseUnit != nil {
		node.Add(QUDTIsScalingOf, rdf.IRI(a.helper.UnitURI(nu.Scaling.BaseUnit)))
		node.Add(QUDTScalingFactor, rdf.Decimal(nu.Scaling.ScalingFactor))
		a.addUnit(nu.Scaling.BaseUnit)
	}

	if nu.QuantityKind != nil {
		node.Add(QUDTHasQuantityKind, rdf.IRI(nu.QuantityKind.URI))
		if nu.QuantityKind.SIConversionMultiplier != 0 {
			node.Add(QUDTConversionMultiplier, rdf.Decimal(nu.QuantityKind.SIConversionMultiplier))
		}
	}

	a.place(nu, fmt.Sprintf("unit %q", nu.Label), Attach(cube.HintUnit, node))
}

func (a *assembler) addMeasure(col *cube.Column, m cube.Measure) {
	propertyURI := a.helper.MeasureURI(m)

	component := a.addComponent(m.Identifier(), QBMeasure, propertyURI)

	var property *rdf.Resource

	if nm, ok := m.(*cube.NewMeasure); ok {
		property = a.add(propertyURI,
			rdf.Type(RDFProperty),
			rdf.Type(QBMeasureProperty),
			rdf.Label(nm.Label),
			rdf.Comment(nm.Description),
			rdf.R(RDFSSubPropertyOf, nm.ParentURI),
			rdf.R(RDFSIsDefinedBy, nm.SourceURI),
		)
	}

	a.place(m, fmt.Sprintf("measure %q of %s", m.Identifier(), columnOwner(col)),
		Attach(cube.HintComponent, component),
		Attach(cube.HintProperty, property),
	)
}

func (a *assembler) addObservationValue(col *cube.Column, d *cube.ObservationValue) {
	a.addComponent(MeasureTypeComponentIdentifier, QBDimension, QBMeasureType)

	if d.Measure != nil {
		a.addMeasure(col, d.Measure)
	}

	if d.Unit != nil {
		a.addUnitComponent()
		a.addUnit(d.Unit)
	}
}

// addSliceKey groups the observations of a pivoted cube that share the
// values of every dimension column
func (a *assembler) addSliceKey() {
	key := a.add(a.uris.SliceKey(),
		rdf.Type(QBSliceKey),
		rdf.Label("Cross-measures slice"),
	)

	for _, p := range a.sliceProperties {
		key.Add(QBComponentProperty, rdf.IRI(p))
	}

	a.graph.Structure.Add(QBSliceKeyProperty, rdf.IRI(key.ID()))
	a.graph.SliceKey = key
}

func columnOwner(col *cube.Column) string {
	return fmt.Sprintf("column %q", col.Title)
}
