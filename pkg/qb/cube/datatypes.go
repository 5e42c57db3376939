package cube

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
)

var datatypeIRIs = map[string]string{
	"string":   vocabulary.XSDString,
	"anyURI":   vocabulary.XSDAnyURI,
	"boolean":  vocabulary.XSDBoolean,
	"date":     vocabulary.XSDDate,
	"dateTime": vocabulary.XSDDateTime,
	"decimal":  vocabulary.XSDDecimal,
	"double":   vocabulary.XSDDouble,
	"float":    vocabulary.XSDNamespace + "float",
	"integer":  vocabulary.XSDInteger,
	"int":      vocabulary.XSDNamespace + "int",
	"long":     vocabulary.XSDNamespace + "long",
	"number":   vocabulary.XSDDouble,
}

// IsKnownDatatype reports whether name is one of the CSV-W datatype names we support
func IsKnownDatatype(name string) bool {
	_, ok := datatypeIRIs[name]
	return ok
}

// DatatypeIRI maps a CSV-W datatype name to its xsd IRI
func DatatypeIRI(name string) string {
	if iri, ok := datatypeIRIs[name]; ok {
		return iri
	}
	return vocabulary.XSDString
}

// ValidateLiteral checks that value can be read as the named datatype
func ValidateLiteral(datatype, value string) error {
	var err error

	switch datatype {
	case "integer", "int", "long":
		_, err = strconv.ParseInt(value, 10, 64)
	case "decimal", "double", "float", "number":
		_, err = strconv.ParseFloat(value, 64)
	case "boolean":
		_, err = strconv.ParseBool(value)
	case "date":
		_, err = time.Parse(time.DateOnly, value)
	case "dateTime":
		_, err = time.Parse(time.RFC3339, value)
	case "anyURI":
		_, err = url.Parse(value)
	}

	if err != nil {
		return fmt.Errorf("%q is not a valid %s", value, datatype)
	}

	return nil
}
