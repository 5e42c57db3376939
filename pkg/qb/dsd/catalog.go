package dsd

import (
	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/rdf"
	. "github.com/diwise/csvcube/pkg/rdf/vocabulary"
)

// catalogDecorators describes a dataset or concept scheme with its dcat/dcterms metadata
func catalogDecorators(meta cube.CatalogMetadata) []rdf.ResourceDecoratorFunc {
	decorators := []rdf.ResourceDecoratorFunc{
		rdf.Label(meta.Title),
		rdf.Text(DCTermsTitle, meta.Title),
		rdf.Text(DCTermsIdentifier, meta.URISafeIdentifier()),
		rdf.Text(DCTermsAbstract, meta.Summary),
		rdf.Text(DCTermsDescription, meta.Description),
		rdf.R(DCTermsCreator, meta.CreatorURI),
		rdf.R(DCTermsPublisher, meta.PublisherURI),
		rdf.R(DCTermsLicense, meta.LicenseURI),
	}

	if meta.Issued != nil {
		decorators = append(decorators, rdf.L(DCTermsIssued, rdf.DateTime(*meta.Issued)))
	}

	if meta.Modified != nil {
		decorators = append(decorators, rdf.L(DCTermsModified, rdf.DateTime(*meta.Modified)))
	}

	for _, theme := range meta.ThemeURIs {
		decorators = append(decorators, rdf.R(DCATTheme, theme))
	}

	for _, keyword := range meta.Keywords {
		decorators = append(decorators, rdf.Text(DCATKeyword, keyword))
	}

	for _, page := range meta.LandingPageURIs {
		decorators = append(decorators, rdf.R(DCATLandingPage, page))
	}

	return decorators
}

func catalogRecordDecorators(meta cube.CatalogMetadata, primaryTopic string) []rdf.ResourceDecoratorFunc {
	decorators := []rdf.ResourceDecoratorFunc{
		rdf.Type(DCATCatalogRecord),
		rdf.Label(meta.Title),
		rdf.Text(DCTermsTitle, meta.Title),
		rdf.R(FOAFPrimaryTopic, primaryTopic),
	}

	if meta.Issued != nil {
		decorators = append(decorators, rdf.L(DCTermsIssued, rdf.DateTime(*meta.Issued)))
	}

	if meta.Modified != nil {
		decorators = append(decorators, rdf.L(DCTermsModified, rdf.DateTime(*meta.Modified)))
	}

	return decorators
}
