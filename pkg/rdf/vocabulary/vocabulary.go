// Package vocabulary holds the well known IRIs used when describing data cubes
package vocabulary

const (
	RDFNamespace     string = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace    string = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace     string = "http://www.w3.org/2001/XMLSchema#"
	QBNamespace      string = "http://purl.org/linked-data/cube#"
	SKOSNamespace    string = "http://www.w3.org/2004/02/skos/core#"
	DCATNamespace    string = "http://www.w3.org/ns/dcat#"
	DCTermsNamespace string = "http://purl.org/dc/terms/"
	FOAFNamespace    string = "http://xmlns.com/foaf/0.1/"
	QUDTNamespace    string = "http://qudt.org/schema/qudt/"
	UINamespace      string = "http://www.w3.org/ns/ui#"

	SDMXAttributeNamespace string = "http://purl.org/linked-data/sdmx/2009/attribute#"
	SDMXDimensionNamespace string = "http://purl.org/linked-data/sdmx/2009/dimension#"

	CSVWContext string = "http://www.w3.org/ns/csvw"
)

const (
	RDFType     string = RDFNamespace + "type"
	RDFProperty string = RDFNamespace + "Property"

	RDFSLabel         string = RDFSNamespace + "label"
	RDFSComment       string = RDFSNamespace + "comment"
	RDFSRange         string = RDFSNamespace + "range"
	RDFSSeeAlso       string = RDFSNamespace + "seeAlso"
	RDFSSubPropertyOf string = RDFSNamespace + "subPropertyOf"
	RDFSSubClassOf    string = RDFSNamespace + "subClassOf"
	RDFSClass         string = RDFSNamespace + "Class"
	RDFSIsDefinedBy   string = RDFSNamespace + "isDefinedBy"
)

const (
	XSDString   string = XSDNamespace + "string"
	XSDInteger  string = XSDNamespace + "integer"
	XSDDecimal  string = XSDNamespace + "decimal"
	XSDDouble   string = XSDNamespace + "double"
	XSDBoolean  string = XSDNamespace + "boolean"
	XSDDateTime string = XSDNamespace + "dateTime"
	XSDDate     string = XSDNamespace + "date"
	XSDAnyURI   string = XSDNamespace + "anyURI"
)

const (
	QBDataSet                 string = QBNamespace + "DataSet"
	QBDataStructureDefinition string = QBNamespace + "DataStructureDefinition"
	QBComponentSpecification  string = QBNamespace + "ComponentSpecification"
	QBDimensionProperty       string = QBNamespace + "DimensionProperty"
	QBAttributeProperty       string = QBNamespace + "AttributeProperty"
	QBMeasureProperty         string = QBNamespace + "MeasureProperty"
	QBCodedProperty           string = QBNamespace + "CodedProperty"
	QBObservation             string = QBNamespace + "Observation"
	QBSlice                   string = QBNamespace + "Slice"
	QBSliceKey                string = QBNamespace + "SliceKey"

	QBStructure          string = QBNamespace + "structure"
	QBComponent          string = QBNamespace + "component"
	QBComponentProperty  string = QBNamespace + "componentProperty"
	QBComponentRequired  string = QBNamespace + "componentRequired"
	QBDimension          string = QBNamespace + "dimension"
	QBAttribute          string = QBNamespace + "attribute"
	QBMeasure            string = QBNamespace + "measure"
	QBMeasureType        string = QBNamespace + "measureType"
	QBOrder              string = QBNamespace + "order"
	QBCodeList           string = QBNamespace + "codeList"
	QBDataSetProperty    string = QBNamespace + "dataSet"
	QBSliceKeyProperty   string = QBNamespace + "sliceKey"
	QBSliceStructure     string = QBNamespace + "sliceStructure"
	QBSliceProperty      string = QBNamespace + "slice"
	QBObservationLinkage string = QBNamespace + "observation"
	QBConcept            string = QBNamespace + "concept"
)

const (
	SKOSConcept       string = SKOSNamespace + "Concept"
	SKOSConceptScheme string = SKOSNamespace + "ConceptScheme"
	SKOSPrefLabel     string = SKOSNamespace + "prefLabel"
	SKOSNotation      string = SKOSNamespace + "notation"
	SKOSInScheme      string = SKOSNamespace + "inScheme"
	SKOSBroader       string = SKOSNamespace + "broader"
	SKOSTopConceptOf  string = SKOSNamespace + "topConceptOf"
	SKOSHasTopConcept string = SKOSNamespace + "hasTopConcept"
	SKOSExactMatch    string = SKOSNamespace + "exactMatch"
	SKOSDefinition    string = SKOSNamespace + "definition"
)

const (
	DCATDataset       string = DCATNamespace + "Dataset"
	DCATCatalogRecord string = DCATNamespace + "CatalogRecord"
	DCATDistribution  string = DCATNamespace + "Distribution"
	DCATKeyword       string = DCATNamespace + "keyword"
	DCATTheme         string = DCATNamespace + "theme"
	DCATLandingPage   string = DCATNamespace + "landingPage"
	DCATDistributionP string = DCATNamespace + "distribution"
	DCATMediaType     string = DCATNamespace + "mediaType"
	DCATDownloadURL   string = DCATNamespace + "downloadURL"

	DCTermsTitle       string = DCTermsNamespace + "title"
	DCTermsDescription string = DCTermsNamespace + "description"
	DCTermsAbstract    string = DCTermsNamespace + "abstract"
	DCTermsIdentifier  string = DCTermsNamespace + "identifier"
	DCTermsCreator     string = DCTermsNamespace + "creator"
	DCTermsPublisher   string = DCTermsNamespace + "publisher"
	DCTermsIssued      string = DCTermsNamespace + "issued"
	DCTermsModified    string = DCTermsNamespace + "modified"
	DCTermsLicense     string = DCTermsNamespace + "license"
	DCTermsSource      string = DCTermsNamespace + "source"

	FOAFPrimaryTopic string = FOAFNamespace + "primaryTopic"
)

const (
	QUDTUnit                 string = QUDTNamespace + "Unit"
	QUDTIsScalingOf          string = QUDTNamespace + "isScalingOf"
	QUDTScalingFactor        string = QUDTNamespace + "scalingFactor"
	QUDTHasQuantityKind      string = QUDTNamespace + "hasQuantityKind"
	QUDTConversionMultiplier string = QUDTNamespace + "conversionMultiplier"
)

const (
	SDMXUnitMeasure string = SDMXAttributeNamespace + "unitMeasure"
	SDMXObsStatus   string = SDMXAttributeNamespace + "obsStatus"
	SDMXRefPeriod   string = SDMXDimensionNamespace + "refPeriod"
)

const UISortPriority string = UINamespace + "sortPriority"

// GovernmentTimeIntervalPrefix is the base of the UK government reference
// time-interval identifiers, e.g. http://reference.data.gov.uk/id/year/2019
const GovernmentTimeIntervalPrefix string = "http://reference.data.gov.uk/id/"
