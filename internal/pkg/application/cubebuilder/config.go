package cubebuilder

import (
	goerrors "errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/diwise/csvcube/pkg/identifiers"
	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/csvcube/pkg/rdf"
	yaml "gopkg.in/yaml.v2"
)

const (
	ColumnTypeDimension    string = "dimension"
	ColumnTypeAttribute    string = "attribute"
	ColumnTypeUnits        string = "units"
	ColumnTypeMeasures     string = "measures"
	ColumnTypeObservations string = "observations"
)

type TripleConfig struct {
	Predicate string `yaml:"predicate"`
	Object    string `yaml:"object"`
	Literal   string `yaml:"literal"`
	Datatype  string `yaml:"datatype"`
	Language  string `yaml:"language"`
	Hint      string `yaml:"hint"`
}

type MetadataConfig struct {
	Title        string         `yaml:"title"`
	Identifier   string         `yaml:"identifier"`
	Summary      string         `yaml:"summary"`
	Description  string         `yaml:"description"`
	Creator      string         `yaml:"creator"`
	Publisher    string         `yaml:"publisher"`
	License      string         `yaml:"license"`
	Issued       string         `yaml:"issued"`
	Modified     string         `yaml:"modified"`
	Themes       []string       `yaml:"themes"`
	Keywords     []string       `yaml:"keywords"`
	LandingPages []string       `yaml:"landingPages"`
	Triples      []TripleConfig `yaml:"triples"`
}

// ResourceConfig describes an existing resource when URI is set and a new one otherwise
type ResourceConfig struct {
	URI         string         `yaml:"uri"`
	Label       string         `yaml:"label"`
	Description string         `yaml:"description"`
	Parent      string         `yaml:"parent"`
	Source      string         `yaml:"source"`
	Triples     []TripleConfig `yaml:"triples"`
}

type UnitConfig struct {
	ResourceConfig         `yaml:",inline"`
	BaseUnit               string  `yaml:"baseUnit"`
	ScalingFactor          float64 `yaml:"scalingFactor"`
	QuantityKind           string  `yaml:"quantityKind"`
	SIConversionMultiplier float64 `yaml:"siConversionMultiplier"`
}

type ConceptConfig struct {
	Label       string `yaml:"label"`
	Code        string `yaml:"code"`
	Parent      string `yaml:"parent"`
	SortOrder   *int   `yaml:"sortOrder"`
	Description string `yaml:"description"`
}

// CodeListConfig is an existing scheme (URI), a code list published in another
// CSV-W document (URI and CSVW) or a new code list (Concepts)
type CodeListConfig struct {
	URI         string          `yaml:"uri"`
	CSVW        string          `yaml:"csvw"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Concepts    []ConceptConfig `yaml:"concepts"`
	Triples     []TripleConfig  `yaml:"triples"`
}

type ColumnConfig struct {
	Title          string `yaml:"title"`
	Type           string `yaml:"type"`
	ResourceConfig `yaml:",inline"`

	Range    string          `yaml:"range"`
	CodeList *CodeListConfig `yaml:"codeList"`
	// Value is the legacy cell value template of a dimension
	Value           string `yaml:"value"`
	CellURITemplate string `yaml:"cellUriTemplate"`
	Suppress        bool   `yaml:"suppress"`

	Required              bool             `yaml:"required"`
	DataType              string           `yaml:"dataType"`
	DescribesObservations string           `yaml:"describesObservations"`
	Values                []ResourceConfig `yaml:"values"`

	Units    []UnitConfig     `yaml:"units"`
	Measures []ResourceConfig `yaml:"measures"`
	Unit     *UnitConfig      `yaml:"unit"`
	Measure  *ResourceConfig  `yaml:"measure"`

	// Data holds inline cell values, used when no CSV file is given
	Data []string `yaml:"data"`
}

type Config struct {
	MetadataConfig `yaml:",inline"`
	URIStyle       string         `yaml:"uriStyle"`
	Columns        []ColumnConfig `yaml:"columns"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

// Cube converts the configuration to a cube. Cell values, keyed by column
// title, are merged with any inline data and used to build the code lists,
// attribute values, units and measures that the configuration leaves out.
func (cfg *Config) Cube(values map[string][]string) (*cube.Cube, error) {
	cv := &converter{}

	meta := cv.metadata(cfg.MetadataConfig)

	style := cube.URIStyleStandard
	switch strings.ToLower(cfg.URIStyle) {
	case "", "standard":
	case "withoutextensions", "without-extensions":
		style = cube.URIStyleWithoutExtensions
	default:
		cv.fail(errors.NewInvalidCubeError("unknown uri style %q", cfg.URIStyle))
	}

	columns := make([]*cube.Column, 0, len(cfg.Columns))
	for _, cc := range cfg.Columns {
		if col := cv.column(cc, values[cc.Title]); col != nil {
			columns = append(columns, col)
		}
	}

	if len(cv.errs) > 0 {
		return nil, goerrors.Join(cv.errs...)
	}

	return cube.New(meta, style, columns...), nil
}

// DocumentIdentifier is the identifier the described cube's files are named after
func (cfg *Config) DocumentIdentifier() string {
	return cube.CatalogMetadata{Title: cfg.Title, Identifier: cfg.Identifier}.URISafeIdentifier()
}

// Table assembles the inline data of the columns into a table. Columns
// without data are left out, the others must have the same number of cells.
func (cfg *Config) Table() (*Table, error) {
	t := &Table{}
	rows := -1

	for _, cc := range cfg.Columns {
		if len(cc.Data) == 0 {
			continue
		}

		if rows >= 0 && len(cc.Data) != rows {
			return nil, errors.NewInvalidCubeError("column %q has %d cells, expected %d", cc.Title, len(cc.Data), rows)
		}
		rows = len(cc.Data)

		t.Header = append(t.Header, cc.Title)
	}

	for r := 0; r < rows; r++ {
		row := make([]string, 0, len(t.Header))
		for _, cc := range cfg.Columns {
			if len(cc.Data) > 0 {
				row = append(row, cc.Data[r])
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

type converter struct {
	errs []error
}

func (cv *converter) fail(err error) {
	cv.errs = append(cv.errs, err)
}

func (cv *converter) time(name, value string) *time.Time {
	if value == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}

	cv.fail(errors.NewInvalidCubeError("%s %q is neither a date nor a timestamp", name, value))
	return nil
}

func (cv *converter) metadata(mc MetadataConfig) cube.CatalogMetadata {
	return cube.CatalogMetadata{
		Title:           mc.Title,
		Identifier:      mc.Identifier,
		Summary:         mc.Summary,
		Description:     mc.Description,
		CreatorURI:      mc.Creator,
		PublisherURI:    mc.Publisher,
		LicenseURI:      mc.License,
		Issued:          cv.time("issued", mc.Issued),
		Modified:        cv.time("modified", mc.Modified),
		ThemeURIs:       mc.Themes,
		Keywords:        mc.Keywords,
		LandingPageURIs: mc.LandingPages,
		Triples:         cv.triples(mc.Triples),
	}
}

func (cv *converter) triples(configs []TripleConfig) []cube.TripleFragment {
	if len(configs) == 0 {
		return nil
	}

	fragments := make([]cube.TripleFragment, 0, len(configs))

	for _, tc := range configs {
		hint := cube.HintDefaultNode
		if tc.Hint != "" {
			var ok bool
			if hint, ok = cube.ParseHint(tc.Hint); !ok {
				cv.fail(errors.NewInvalidCubeError("unknown rdf hint %q for predicate %s", tc.Hint, tc.Predicate))
				continue
			}
		}

		if tc.Predicate == "" {
			cv.fail(errors.NewInvalidCubeError("arbitrary rdf is missing a predicate"))
			continue
		}

		var object rdf.Term
		switch {
		case tc.Object != "":
			object = rdf.IRI(tc.Object)
		case tc.Language != "":
			object = rdf.LangString(tc.Literal, tc.Language)
		case tc.Datatype != "":
			object = rdf.Typed(tc.Literal, tc.Datatype)
		default:
			object = rdf.String(tc.Literal)
		}

		fragments = append(fragments, cube.TripleFragment{Predicate: tc.Predicate, Object: object, Hint: hint})
	}

	return fragments
}

func (cv *converter) column(cc ColumnConfig, data []string) *cube.Column {
	col := &cube.Column{
		Title:                cc.Title,
		CSVColumnURITemplate: cc.CellURITemplate,
		SuppressOutput:       cc.Suppress,
	}

	switch strings.ToLower(cc.Type) {
	case ColumnTypeDimension:
		col.Definition = cv.dimension(cc, data)
	case ColumnTypeAttribute:
		col.Definition = cv.attribute(cc, data)
	case ColumnTypeUnits:
		col.Definition = cv.units(cc, data)
	case ColumnTypeMeasures:
		col.Definition = cv.measures(cc, data)
	case ColumnTypeObservations:
		col.Definition = cv.observations(cc)
	default:
		cv.fail(errors.NewInvalidCubeError("column %q has unknown type %q", cc.Title, cc.Type))
		return nil
	}

	return col
}

func orSlug(code, label string) string {
	if code != "" {
		return code
	}
	return identifiers.Slugify(label)
}

func orTitle(label, title string) string {
	if label != "" {
		return label
	}
	return title
}

func (cv *converter) dimension(cc ColumnConfig, data []string) cube.StructuralDefinition {
	if cc.URI != "" {
		return &cube.ExistingDimension{
			URI:      cc.URI,
			RangeURI: cc.Range,
			Triples:  cv.triples(cc.Triples),
		}
	}

	d := &cube.NewDimension{
		Label:       orTitle(cc.Label, cc.Title),
		Description: cc.Description,
		ParentURI:   cc.Parent,
		SourceURI:   cc.Source,
		Triples:     cv.triples(cc.Triples),
	}

	switch {
	case cc.CodeList != nil:
		d.CodeList = cv.codeList(d.Label, cc.CodeList)
	case len(data) > 0:
		cl, err := cube.NewDimensionCodeList(d, cc.Value, data)
		if err != nil {
			cv.fail(err)
			return d
		}
		d.CodeList = cl
	}

	return d
}

func (cv *converter) codeList(owner string, clc *CodeListConfig) cube.CodeList {
	if clc.URI != "" {
		if clc.CSVW != "" {
			return &cube.NewCodeListInCSVW{SchemeURI: clc.URI, CSVWPath: clc.CSVW}
		}
		return &cube.ExistingCodeList{ConceptSchemeURI: clc.URI}
	}

	concepts := make([]cube.Concept, 0, len(clc.Concepts))
	for _, c := range clc.Concepts {
		concepts = append(concepts, cube.Concept{
			Label:       c.Label,
			Code:        orSlug(c.Code, c.Label),
			ParentCode:  c.Parent,
			SortOrder:   c.SortOrder,
			Description: c.Description,
		})
	}

	return &cube.NewCodeList{
		Metadata: cube.CatalogMetadata{Title: orTitle(clc.Title, owner), Description: clc.Description},
		Concepts: concepts,
		Triples:  cv.triples(clc.Triples),
	}
}

func (cv *converter) attributeValues(configs []ResourceConfig, data []string) []*cube.AttributeValue {
	attributeValues := []*cube.AttributeValue{}

	if len(configs) == 0 {
		for _, v := range distinct(data) {
			attributeValues = append(attributeValues, &cube.AttributeValue{Label: v})
		}
		return attributeValues
	}

	for _, vc := range configs {
		attributeValues = append(attributeValues, &cube.AttributeValue{
			Label:       vc.Label,
			Description: vc.Description,
			ParentURI:   vc.Parent,
			SourceURI:   vc.Source,
			Triples:     cv.triples(vc.Triples),
		})
	}

	return attributeValues
}

func (cv *converter) attribute(cc ColumnConfig, data []string) cube.StructuralDefinition {
	var newValues []*cube.AttributeValue
	if cc.DataType == "" && cc.CodeList == nil {
		newValues = cv.attributeValues(cc.Values, data)
	}

	if cc.URI != "" {
		return &cube.ExistingAttribute{
			URI:                      cc.URI,
			IsRequired:               cc.Required,
			LiteralDatatype:          cc.DataType,
			NewValues:                newValues,
			ObservedValueColumnTitle: cc.DescribesObservations,
			Triples:                  cv.triples(cc.Triples),
		}
	}

	a := &cube.NewAttribute{
		Label:                    orTitle(cc.Label, cc.Title),
		Description:              cc.Description,
		ParentURI:                cc.Parent,
		SourceURI:                cc.Source,
		IsRequired:               cc.Required,
		LiteralDatatype:          cc.DataType,
		NewValues:                newValues,
		ObservedValueColumnTitle: cc.DescribesObservations,
		Triples:                  cv.triples(cc.Triples),
	}

	if cc.CodeList != nil {
		a.CodeList = cv.codeList(a.Label, cc.CodeList)
	}

	return a
}

func (cv *converter) unit(uc UnitConfig) cube.Unit {
	if uc.URI != "" {
		return &cube.ExistingUnit{URI: uc.URI}
	}

	u := &cube.NewUnit{
		Label:       uc.Label,
		Description: uc.Description,
		Triples:     cv.triples(uc.Triples),
	}

	if uc.BaseUnit != "" {
		u.Scaling = &cube.UnitScaling{BaseUnit: referencedUnit(uc.BaseUnit), ScalingFactor: uc.ScalingFactor}
	}

	if uc.QuantityKind != "" {
		u.QuantityKind = &cube.QuantityKind{URI: uc.QuantityKind, SIConversionMultiplier: uc.SIConversionMultiplier}
	}

	return u
}

// referencedUnit treats absolute uris as existing units and anything else as the label of a new unit
func referencedUnit(ref string) cube.Unit {
	if strings.Contains(ref, "://") {
		return &cube.ExistingUnit{URI: ref}
	}
	return &cube.NewUnit{Label: ref}
}

func (cv *converter) units(cc ColumnConfig, data []string) cube.StructuralDefinition {
	mu := &cube.MultiUnits{ObservedValueColumnTitle: cc.DescribesObservations}

	for _, uc := range cc.Units {
		mu.Units = append(mu.Units, cv.unit(uc))
	}

	if len(mu.Units) == 0 {
		for _, v := range distinct(data) {
			mu.Units = append(mu.Units, referencedUnit(v))
		}
	}

	return mu
}

func (cv *converter) measure(mc ResourceConfig) cube.Measure {
	if mc.URI != "" {
		return &cube.ExistingMeasure{URI: mc.URI, Triples: cv.triples(mc.Triples)}
	}

	return &cube.NewMeasure{
		Label:       mc.Label,
		Description: mc.Description,
		ParentURI:   mc.Parent,
		SourceURI:   mc.Source,
		Triples:     cv.triples(mc.Triples),
	}
}

func (cv *converter) measures(cc ColumnConfig, data []string) cube.StructuralDefinition {
	mm := &cube.MultiMeasureDimension{}

	for _, mc := range cc.Measures {
		mm.Measures = append(mm.Measures, cv.measure(mc))
	}

	if len(mm.Measures) == 0 {
		for _, v := range distinct(data) {
			if strings.Contains(v, "://") {
				mm.Measures = append(mm.Measures, &cube.ExistingMeasure{URI: v})
			} else {
				mm.Measures = append(mm.Measures, &cube.NewMeasure{Label: v})
			}
		}
	}

	return mm
}

func (cv *converter) observations(cc ColumnConfig) cube.StructuralDefinition {
	ov := &cube.ObservationValue{DataType: cc.DataType}

	if cc.Measure != nil {
		ov.Measure = cv.measure(*cc.Measure)
	}

	if cc.Unit != nil {
		ov.Unit = cv.unit(*cc.Unit)
	}

	if ov.DataType != "" && !cube.IsKnownDatatype(ov.DataType) {
		cv.fail(errors.NewInvalidCubeError("column %q has unknown data type %q", cc.Title, ov.DataType))
	}

	return ov
}

// distinct returns the non empty values in sorted order without repetitions
func distinct(values []string) []string {
	seen := map[string]struct{}{}
	result := []string{}

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	sort.Strings(result)
	return result
}
