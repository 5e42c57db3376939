package cubebuilder

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/diwise/csvcube/pkg/identifiers"
	"github.com/diwise/csvcube/pkg/qb/cube"
)

// Table is the tabular data of a cube, one header title per cube column
type Table struct {
	Header []string
	Rows   [][]string
}

func ReadCSV(r io.Reader) (*Table, error) {
	in := csv.NewReader(r)
	in.TrimLeadingSpace = true

	records, err := in.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv data has no header row")
	}

	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// Values returns the cells of every column keyed by the column title
func (t *Table) Values() map[string][]string {
	values := make(map[string][]string, len(t.Header))

	for i, title := range t.Header {
		cells := make([]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			if i < len(row) {
				cells = append(cells, row[i])
			}
		}
		values[title] = cells
	}

	return values
}

// WriteDataCSV writes the table with the labels in every column that addresses
// generated resources replaced by the identifiers those resources are minted with
func WriteDataCSV(w io.Writer, c *cube.Cube, t *Table) error {
	rewriters := make([]func(string) string, len(t.Header))
	for i, title := range t.Header {
		if col, ok := c.ColumnByTitle(title); ok {
			rewriters[i] = cellRewriter(col)
		}
	}

	out := csv.NewWriter(w)
	if err := out.Write(t.Header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			if i < len(rewriters) && rewriters[i] != nil && cell != "" {
				cell = rewriters[i](cell)
			}
			record[i] = cell
		}

		if err := out.Write(record); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

// cellRewriter returns nil for columns whose cells are used verbatim
func cellRewriter(col *cube.Column) func(string) string {
	if col.CSVColumnURITemplate != "" {
		return nil
	}

	switch d := col.Definition.(type) {
	case *cube.NewDimension:
		if cl, ok := d.CodeList.(cube.LocalCodeList); ok {
			return conceptCode(cl)
		}
	case *cube.NewAttribute:
		if d.Datatype() == "" && len(d.Values()) > 0 {
			return identifiers.Slugify
		}
		if cl, ok := d.CodeList.(cube.LocalCodeList); ok {
			return conceptCode(cl)
		}
	case *cube.ExistingAttribute:
		if d.Datatype() == "" && len(d.Values()) > 0 {
			return identifiers.Slugify
		}
	case *cube.MultiUnits:
		if d.AllNew() {
			return identifiers.Slugify
		}
	case *cube.MultiMeasureDimension:
		if d.AllNew() {
			return identifiers.Slugify
		}
	}

	return nil
}

// conceptCode maps both labels and codes of the concepts in cl to their code
func conceptCode(cl cube.LocalCodeList) func(string) string {
	codes := map[string]string{}
	for _, c := range cl.ConceptList() {
		codes[c.Label] = c.Code
		codes[c.Code] = c.Code
	}

	return func(cell string) string {
		if code, ok := codes[cell]; ok {
			return code
		}
		return identifiers.Slugify(cell)
	}
}
