package rdf

import (
	"encoding/json"
	"slices"
)

// Graph is an insertion ordered set of resources keyed by their id
type Graph struct {
	order     []string
	resources map[string]*Resource
}

func NewGraph() *Graph {
	return &Graph{
		resources: map[string]*Resource{},
	}
}

// Add stores r in the graph. If a resource with the same id is already
// present the triples of r are merged into it and the stored resource is
// returned, so that callers always hold the canonical node.
func (g *Graph) Add(r *Resource) *Resource {
	if existing, ok := g.resources[r.ID()]; ok {
		existing.Merge(r)
		return existing
	}

	g.order = append(g.order, r.ID())
	g.resources[r.ID()] = r

	return r
}

func (g *Graph) Get(id string) (*Resource, bool) {
	r, ok := g.resources[id]
	return r, ok
}

func (g *Graph) Contains(id string) bool {
	_, ok := g.resources[id]
	return ok
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Resources returns the resources in insertion order
func (g *Graph) Resources() []*Resource {
	result := make([]*Resource, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.resources[id])
	}
	return result
}

// IDs returns the resource ids in insertion order
func (g *Graph) IDs() []string {
	return slices.Clone(g.order)
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Resources())
}
