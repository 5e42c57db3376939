package rdf

import (
	"strconv"
	"time"

	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
)

// Term is either an IRI or a Literal
type Term interface {
	String() string
	isTerm()
}

// IRI identifies a resource
type IRI string

func (i IRI) String() string { return string(i) }
func (IRI) isTerm()          {}

// Literal is a plain, language tagged or datatyped value
type Literal struct {
	Value    string
	Datatype string
	Language string
}

func (l Literal) String() string { return l.Value }
func (Literal) isTerm()          {}

// String creates an untyped string literal
func String(value string) Literal {
	return Literal{Value: value}
}

// LangString creates a language tagged string literal
func LangString(value, language string) Literal {
	return Literal{Value: value, Language: language}
}

// Typed creates a literal with the supplied datatype IRI
func Typed(value, datatype string) Literal {
	return Literal{Value: value, Datatype: datatype}
}

func Integer(value int) Literal {
	return Typed(strconv.Itoa(value), vocabulary.XSDInteger)
}

func Decimal(value float64) Literal {
	return Typed(strconv.FormatFloat(value, 'f', -1, 64), vocabulary.XSDDecimal)
}

func Boolean(value bool) Literal {
	return Typed(strconv.FormatBool(value), vocabulary.XSDBoolean)
}

func DateTime(value time.Time) Literal {
	return Typed(value.UTC().Format(time.RFC3339), vocabulary.XSDDateTime)
}

// termToJSONLD returns the expanded JSON-LD value object of a term
func termToJSONLD(t Term) map[string]any {
	switch v := t.(type) {
	case IRI:
		return map[string]any{"@id": string(v)}
	case Literal:
		obj := map[string]any{"@value": v.Value}
		if v.Language != "" {
			obj["@language"] = v.Language
		} else if v.Datatype != "" {
			obj["@type"] = v.Datatype
		}
		return obj
	}

	return map[string]any{"@value": t.String()}
}
