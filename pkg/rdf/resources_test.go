package rdf

import (
	"encoding/json"
	"testing"

	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
	"github.com/matryer/is"
)

func TestResourceIgnoresDuplicateTriples(t *testing.T) {
	is := is.New(t)

	r := New("http://example.org/a",
		Type(vocabulary.QBDimensionProperty),
		Type(vocabulary.QBDimensionProperty),
		Label("A"),
		Label("A"),
	)

	count := 0
	r.ForEachTriple(func(string, string, Term) { count++ })

	is.Equal(count, 2) // should hold one type and one label
	is.True(r.HasType(vocabulary.QBDimensionProperty))
}

func TestResourceMarshalsToExpandedJSONLD(t *testing.T) {
	is := is.New(t)

	r := New("http://example.org/a",
		Type(vocabulary.QBComponentSpecification),
		L(vocabulary.QBOrder, Integer(3)),
		R(vocabulary.QBDimension, "http://example.org/dim"),
		L(vocabulary.RDFSLabel, LangString("Area", "en")),
	)

	b, err := json.Marshal(r)
	is.NoErr(err)
	is.Equal(string(b), expectedResourceJSON)
}

func TestEmptyTextIsNotAdded(t *testing.T) {
	is := is.New(t)

	r := New("http://example.org/a", Comment(""), R(vocabulary.DCTermsSource, ""))

	is.Equal(r.Object(vocabulary.RDFSComment), nil)
	is.Equal(r.Object(vocabulary.DCTermsSource), nil)
}

func TestGraphMergesResourcesWithTheSameID(t *testing.T) {
	is := is.New(t)

	g := NewGraph()
	first := g.Add(New("http://example.org/a", Label("A")))
	second := g.Add(New("http://example.org/a", Comment("about a")))
	g.Add(New("http://example.org/b"))

	is.True(first == second) // the canonical node should be returned
	is.Equal(g.Len(), 2)
	is.Equal(g.IDs(), []string{"http://example.org/a", "http://example.org/b"})
	is.Equal(first.Object(vocabulary.RDFSComment), Term(String("about a")))
}

const expectedResourceJSON string = `{"@id":"http://example.org/a","@type":["http://purl.org/linked-data/cube#ComponentSpecification"],"http://purl.org/linked-data/cube#dimension":[{"@id":"http://example.org/dim"}],"http://purl.org/linked-data/cube#order":[{"@type":"http://www.w3.org/2001/XMLSchema#integer","@value":"3"}],"http://www.w3.org/2000/01/rdf-schema#label":[{"@language":"en","@value":"Area"}]}`
