package csvw

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/dsd"
	"github.com/diwise/csvcube/pkg/qb/uris"
	"github.com/diwise/csvcube/pkg/rdf/vocabulary"
)

const (
	LabelColumn              string = "label"
	NotationColumn           string = "notation"
	ParentNotationColumn     string = "parent_notation"
	SortPriorityColumn       string = "sort_priority"
	DescriptionColumn        string = "description"
	OriginalConceptURIColumn string = "original_concept_uri"
)

// NewCodeListMetadata builds the CSV-W document of a local code list. The
// concepts are identified by their notation.
func NewCodeListMetadata(g *dsd.CodeListGraph) *Metadata {
	u := g.URIs
	concept := u.Concept(uris.ColumnTemplate(NotationColumn))

	columns := []Column{
		{Titles: "Label", Name: LabelColumn, PropertyURL: vocabulary.SKOSPrefLabel, Required: true},
		{Titles: "Notation", Name: NotationColumn, PropertyURL: vocabulary.SKOSNotation, Required: true},
		{
			Titles:      "Parent Notation",
			Name:        ParentNotationColumn,
			PropertyURL: vocabulary.SKOSBroader,
			ValueURL:    u.Concept(uris.ColumnTemplate(ParentNotationColumn)),
		},
		{Titles: "Sort Priority", Name: SortPriorityColumn, PropertyURL: vocabulary.UISortPriority, Datatype: "integer"},
		{Titles: "Description", Name: DescriptionColumn, PropertyURL: vocabulary.SKOSDefinition},
	}

	if _, ok := g.CodeList.(*cube.CompositeCodeList); ok {
		columns = append(columns, Column{
			Titles:      "Original Concept URI",
			Name:        OriginalConceptURIColumn,
			PropertyURL: vocabulary.SKOSExactMatch,
			ValueURL:    uris.ColumnTemplate(OriginalConceptURIColumn),
		})
	}

	columns = append(columns,
		virtualColumn("virt_type", "", vocabulary.RDFType, vocabulary.SKOSConcept),
		virtualColumn("virt_in_scheme", "", vocabulary.SKOSInScheme, u.ConceptScheme()),
	)

	return &Metadata{
		Context: vocabulary.CSVWContext,
		ID:      u.ConceptScheme(),
		Tables: []Table{{
			URL: CSVFileName(g.CodeList.Identifier()),
			TableSchema: TableSchema{
				Columns:    columns,
				PrimaryKey: []string{NotationColumn},
				AboutURL:   concept,
			},
		}},
		SeeAlso: g,
	}
}

// WriteCodeListCSV writes the rows described by NewCodeListMetadata
func WriteCodeListCSV(w io.Writer, cl cube.LocalCodeList) error {
	composite, _ := cl.(*cube.CompositeCodeList)

	header := []string{"Label", "Notation", "Parent Notation", "Sort Priority", "Description"}
	if composite != nil {
		header = append(header, "Original Concept URI")
	}

	out := csv.NewWriter(w)
	if err := out.Write(header); err != nil {
		return err
	}

	for i, c := range cl.ConceptList() {
		sortPriority := i
		if c.SortOrder != nil {
			sortPriority = *c.SortOrder
		}

		row := []string{c.Label, c.Code, c.ParentCode, strconv.Itoa(sortPriority), c.Description}
		if composite != nil {
			existing, _ := composite.ExistingConceptURI(c.Code)
			row = append(row, existing)
		}

		if err := out.Write(row); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
