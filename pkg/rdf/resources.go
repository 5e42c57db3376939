// Package rdf contains a small model of RDF resources that serialises to
// expanded JSON-LD.
package rdf

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
)

type ResourceDecoratorFunc func(r *Resource)

// Resource is a subject together with every predicate/object pair it is the subject of.
// Objects are kept in insertion order and a (predicate, object) pair is only stored once.
type Resource struct {
	id         string
	predicates []string
	objects    map[string][]Term
}

func New(id string, decorators ...ResourceDecoratorFunc) *Resource {
	r := &Resource{
		id:      id,
		objects: map[string][]Term{},
	}

	for _, decorator := range decorators {
		decorator(r)
	}

	return r
}

func (r *Resource) ID() string {
	return r.id
}

// Add appends an object for predicate unless the same pair is already present
func (r *Resource) Add(predicate string, object Term) {
	if object == nil {
		return
	}

	existing, ok := r.objects[predicate]
	if !ok {
		r.predicates = append(r.predicates, predicate)
	}

	if slices.Contains(existing, object) {
		return
	}

	r.objects[predicate] = append(existing, object)
}

// Objects returns the objects stored for a predicate
func (r *Resource) Objects(predicate string) []Term {
	return slices.Clone(r.objects[predicate])
}

// Object returns the first object stored for a predicate, or nil
func (r *Resource) Object(predicate string) Term {
	if objs := r.objects[predicate]; len(objs) > 0 {
		return objs[0]
	}
	return nil
}

func (r *Resource) Types() []string {
	types := []string{}
	for _, t := range r.objects[vocabulary.RDFType] {
		types = append(types, t.String())
	}
	return types
}

func (r *Resource) HasType(typ string) bool {
	return slices.Contains(r.objects[vocabulary.RDFType], Term(IRI(typ)))
}

// ForEachTriple calls callback for every triple in insertion order
func (r *Resource) ForEachTriple(callback func(subject, predicate string, object Term)) {
	for _, p := range r.predicates {
		for _, o := range r.objects[p] {
			callback(r.id, p, o)
		}
	}
}

// Merge copies every triple of other onto r. Both resources must share the same id.
func (r *Resource) Merge(other *Resource) error {
	if other.id != r.id {
		return fmt.Errorf("unable to merge %s into %s", other.id, r.id)
	}

	other.ForEachTriple(func(_, p string, o Term) {
		r.Add(p, o)
	})

	return nil
}

func (r *Resource) MarshalJSON() ([]byte, error) {
	contents := map[string]any{
		"@id": r.id,
	}

	for _, p := range r.predicates {
		if p == vocabulary.RDFType {
			contents["@type"] = r.Types()
			continue
		}

		values := make([]map[string]any, 0, len(r.objects[p]))
		for _, o := range r.objects[p] {
			values = append(values, termToJSONLD(o))
		}
		contents[p] = values
	}

	return json.Marshal(&contents)
}

func Type(typ string) ResourceDecoratorFunc {
	return R(vocabulary.RDFType, typ)
}

// R adds a relation from the resource to another resource
func R(predicate, object string) ResourceDecoratorFunc {
	return func(r *Resource) {
		if object != "" {
			r.Add(predicate, IRI(object))
		}
	}
}

// L adds a literal value to the resource
func L(predicate string, value Literal) ResourceDecoratorFunc {
	return func(r *Resource) { r.Add(predicate, value) }
}

// Text adds a plain string literal, ignoring empty values
func Text(predicate, value string) ResourceDecoratorFunc {
	return func(r *Resource) {
		if value != "" {
			r.Add(predicate, String(value))
		}
	}
}

func Label(value string) ResourceDecoratorFunc {
	return Text(vocabulary.RDFSLabel, value)
}

func Comment(value string) ResourceDecoratorFunc {
	return Text(vocabulary.RDFSComment, value)
}
