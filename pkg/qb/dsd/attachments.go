package dsd

import (
	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/csvcube/pkg/rdf"
)

// AttachmentPoints maps the hints of one structural definition to the nodes
// generated for it. It is built once and only read afterwards.
type AttachmentPoints struct {
	nodes map[cube.Hint]*rdf.Resource
}

type AttachmentPoint struct {
	Hint cube.Hint
	Node *rdf.Resource
}

func Attach(h cube.Hint, node *rdf.Resource) AttachmentPoint {
	return AttachmentPoint{Hint: h, Node: node}
}

// NewAttachmentPoints creates the hint map. Points with a nil node are skipped.
func NewAttachmentPoints(points ...AttachmentPoint) AttachmentPoints {
	nodes := make(map[cube.Hint]*rdf.Resource, len(points))
	for _, p := range points {
		if p.Node != nil {
			nodes[p.Hint] = p.Node
		}
	}
	return AttachmentPoints{nodes: nodes}
}

func (ap AttachmentPoints) Lookup(h cube.Hint) (*rdf.Resource, bool) {
	node, ok := ap.nodes[h]
	return node, ok
}

// PlaceFragments appends the carrier's arbitrary RDF to the nodes its hints
// resolve to. Every fragment is checked before any triple is added, so a
// failing carrier leaves the nodes untouched.
func PlaceFragments(carrier cube.ArbitraryRDFCarrier, owner string, points AttachmentPoints) []error {
	fragments := carrier.ArbitraryRDF()
	if len(fragments) == 0 {
		return nil
	}

	errs := []error{}
	targets := make([]*rdf.Resource, len(fragments))

	for i, f := range fragments {
		hint := cube.ResolveHint(carrier, f.Hint)

		if !cube.PermitsHint(carrier, hint) {
			errs = append(errs, errors.NewUnplaceableRDFFragmentError(
				"%s does not accept rdf attached to %s (%s %s)", owner, hint, f.Predicate, f.Object,
			))
			continue
		}

		node, ok := points.Lookup(hint)
		if !ok {
			errs = append(errs, errors.NewUnplaceableRDFFragmentError(
				"%s has no generated %s node to attach %s to", owner, hint, f.Predicate,
			))
			continue
		}

		targets[i] = node
	}

	if len(errs) > 0 {
		return errs
	}

	for i, f := range fragments {
		targets[i].Add(f.Predicate, f.Object)
	}

	return nil
}
