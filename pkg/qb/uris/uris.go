// Package uris generates the document relative uris of everything a cube
// defines. Every function is pure, so equal inputs always give byte identical
// uris and callers may rely on string equality to detect the same resource.
package uris

import (
	"github.com/diwise/csvcube/pkg/qb/cube"
)

type Generator struct {
	document string
	style    cube.URIStyle
}

// New returns a Generator for the document with the given uri safe identifier
func New(documentIdentifier string, style cube.URIStyle) Generator {
	return Generator{
		document: Document(documentIdentifier, style),
		style:    style,
	}
}

// ForCube returns the Generator of a cube's own CSV-W document
func ForCube(c *cube.Cube) Generator {
	return New(c.Identifier(), c.URIStyle)
}

// Document is the document identifier of a CSV file in the given style
func Document(identifier string, style cube.URIStyle) string {
	if style == cube.URIStyleWithoutExtensions {
		return identifier
	}
	return identifier + ".csv"
}

// Document returns the document all uris are relative to
func (g Generator) Document() string {
	return g.document
}

func (g Generator) Style() cube.URIStyle {
	return g.style
}

func (g Generator) fragment(f string) string {
	return g.document + "#" + f
}

func (g Generator) Dataset() string {
	return g.fragment("dataset")
}

func (g Generator) CatalogRecord() string {
	return g.fragment("catalog-record")
}

func (g Generator) Structure() string {
	return g.fragment("structure")
}

func (g Generator) Component(id string) string {
	return g.fragment("component/" + id)
}

func (g Generator) Dimension(id string) string {
	return g.fragment("dimension/" + id)
}

func (g Generator) Attribute(id string) string {
	return g.fragment("attribute/" + id)
}

func (g Generator) AttributeValue(attributeID, valueID string) string {
	return g.fragment("attribute/" + attributeID + "/" + valueID)
}

func (g Generator) Measure(id string) string {
	return g.fragment("measure/" + id)
}

func (g Generator) Unit(id string) string {
	return g.fragment("unit/" + id)
}

func (g Generator) Class(id string) string {
	return g.fragment("class/" + id)
}

func (g Generator) SliceKey() string {
	return g.fragment("slice/cross-measures")
}

func (g Generator) Slice(template string) string {
	return g.fragment("slice/" + template)
}

func (g Generator) Observation(template string) string {
	return g.fragment("obs/" + template)
}

// CodeList returns the Generator of the separate document holding a local code list
func (g Generator) CodeList(codeListIdentifier string) Generator {
	return New(codeListIdentifier, g.style)
}

// ConceptScheme is the scheme uri of a code list document generator
func (g Generator) ConceptScheme() string {
	return g.fragment("code-list")
}

func (g Generator) Concept(code string) string {
	return g.fragment(code)
}

// ColumnTemplate returns the unescaped uri template fragment {+name}
func ColumnTemplate(csvName string) string {
	return "{+" + csvName + "}"
}

// EscapedColumnTemplate returns the escaped uri template fragment {name}
func EscapedColumnTemplate(csvName string) string {
	return "{" + csvName + "}"
}
