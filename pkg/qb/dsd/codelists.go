package dsd

import (
	"fmt"

	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/uris"
	"github.com/diwise/csvcube/pkg/rdf"
	. "github.com/diwise/csvcube/pkg/rdf/vocabulary"
)

// CodeListGraph is the skos concept scheme of a local code list. It lives in
// the code list's own CSV-W document.
type CodeListGraph struct {
	CodeList  cube.LocalCodeList
	URIs      uris.Generator
	Scheme    *rdf.Resource
	Concepts  []*rdf.Resource
	Resources *rdf.Graph
}

func (g *CodeListGraph) MarshalJSON() ([]byte, error) {
	return g.Resources.MarshalJSON()
}

// AssembleCodeList builds the concept scheme of cl relative to the code list document u
func AssembleCodeList(cl cube.LocalCodeList, u uris.Generator) (*CodeListGraph, []error) {
	g := &CodeListGraph{
		CodeList:  cl,
		URIs:      u,
		Resources: rdf.NewGraph(),
	}

	decorators := append([]rdf.ResourceDecoratorFunc{
		rdf.Type(SKOSConceptScheme),
		rdf.Type(DCATDataset),
	}, catalogDecorators(cl.CatalogMetadata())...)

	g.Scheme = g.Resources.Add(rdf.New(u.ConceptScheme(), decorators...))
	g.Resources.Add(rdf.New(u.CatalogRecord(), catalogRecordDecorators(cl.CatalogMetadata(), u.ConceptScheme())...))

	composite, _ := cl.(*cube.CompositeCodeList)

	for i, c := range cl.ConceptList() {
		uri := u.Concept(c.Code)

		concept := rdf.New(uri,
			rdf.Type(SKOSConcept),
			rdf.L(SKOSPrefLabel, rdf.String(c.Label)),
			rdf.L(SKOSNotation, rdf.String(c.Code)),
			rdf.R(SKOSInScheme, g.Scheme.ID()),
			rdf.Text(SKOSDefinition, c.Description),
		)

		if c.ParentCode != "" {
			concept.Add(SKOSBroader, rdf.IRI(u.Concept(c.ParentCode)))
		} else {
			concept.Add(SKOSTopConceptOf, rdf.IRI(g.Scheme.ID()))
			g.Scheme.Add(SKOSHasTopConcept, rdf.IRI(uri))
		}

		sortPriority := i
		if c.SortOrder != nil {
			sortPriority = *c.SortOrder
		}
		concept.Add(UISortPriority, rdf.Integer(sortPriority))

		if composite != nil {
			if existing, ok := composite.ExistingConceptURI(c.Code); ok && existing != "" {
				concept.Add(SKOSExactMatch, rdf.IRI(existing))
			}
		}

		g.Concepts = append(g.Concepts, g.Resources.Add(concept))
	}

	errs := PlaceFragments(cl, fmt.Sprintf("code list %q", cl.Identifier()),
		NewAttachmentPoints(Attach(cube.HintConceptScheme, g.Scheme)),
	)
	if len(errs) > 0 {
		return nil, errs
	}

	return g, nil
}
