package cube

import (
	"time"

	"github.com/diwise/csvcube/pkg/identifiers"
)

// CatalogMetadata describes a cube or a code list for data catalogues
type CatalogMetadata struct {
	Title       string
	Identifier  string
	Summary     string
	Description string

	CreatorURI   string
	PublisherURI string
	LicenseURI   string

	Issued   *time.Time
	Modified *time.Time

	ThemeURIs       []string
	Keywords        []string
	LandingPageURIs []string

	Triples []TripleFragment
}

// URISafeIdentifier is the explicit Identifier if one is set, otherwise a slug of the title
func (m CatalogMetadata) URISafeIdentifier() string {
	if m.Identifier != "" {
		return m.Identifier
	}
	return identifiers.Slugify(m.Title)
}

func (m CatalogMetadata) ArbitraryRDF() []TripleFragment {
	return m.Triples
}

func (m CatalogMetadata) RDFHints() ([]Hint, Hint) {
	return []Hint{HintCatalogDataset}, HintCatalogDataset
}
