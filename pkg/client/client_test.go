package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	qberrors "github.com/diwise/csvcube/pkg/qb/errors"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput
var method = expects.RequestMethod
var path = expects.RequestPath
var body = expects.RequestBody

func TestBuildCSVW(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/api/v1/cubes/csvw"),
			body(description),
		),
		Returns(
			response.ContentType("application/csvm+json"),
			response.Code(http.StatusOK),
			response.Body([]byte(metadata)),
		),
	)
	defer s.Close()

	c := NewCubeBuilderClient(s.URL(), Token("let-me-build"))

	result, err := c.BuildCSVW(context.Background(), strings.NewReader(description))
	is.NoErr(err)

	is.Equal(result.Metadata.ID, "counts.csv#dataset")
	is.Equal(result.Metadata.Tables[0].URL, "counts.csv")
	is.Equal(result.Metadata.Tables[0].TableSchema.Columns[0].Name, "area")
}

func TestBuildDSD(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/api/v1/cubes/dsd"),
		),
		Returns(
			response.ContentType("application/ld+json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`{"@graph":[]}`)),
		),
	)
	defer s.Close()

	c := NewCubeBuilderClient(s.URL() + "/")

	result, err := c.BuildDSD(context.Background(), strings.NewReader(description))
	is.NoErr(err)
	is.Equal(string(result.Graph), `{"@graph":[]}`)
}

func TestBuildErrorsAreMappedFromProblemReports(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusUnprocessableEntity),
			response.Body([]byte(`{"type":"https://diwise.io/csvcube/errors/StructuralConflict","title":"Structural Conflict","detail":"dimension area has no code list"}`)),
		),
	)
	defer s.Close()

	c := NewCubeBuilderClient(s.URL())

	_, err := c.BuildCSVW(context.Background(), strings.NewReader(description))
	is.True(errors.Is(err, qberrors.ErrStructuralConflict))
	is.Equal(err.Error(), "dimension area has no code list")
}

func TestUnauthorizedBuild(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusUnauthorized),
			response.Body([]byte(`{"type":"https://diwise.io/csvcube/errors/UnauthorizedRequest","title":"Unauthorized Request","detail":"not authorized"}`)),
		),
	)
	defer s.Close()

	c := NewCubeBuilderClient(s.URL())

	_, err := c.BuildDSD(context.Background(), strings.NewReader(description))
	is.True(errors.Is(err, ErrUnauthorized))
}

func TestUnknownProblemTypesFallBackOnStatusCode(t *testing.T) {
	is := is.New(t)

	err := NewErrorFromProblemReport(http.StatusBadGateway, []byte(`{"type":"about:blank","detail":"upstream"}`))
	is.True(errors.Is(err, ErrInternal))

	err = NewErrorFromProblemReport(http.StatusConflict, []byte(`{"type":"about:blank","detail":"conflict"}`))
	is.True(errors.Is(err, ErrBadRequest))

	err = NewErrorFromProblemReport(http.StatusBadRequest, []byte(`not json`))
	is.True(errors.Is(err, ErrBadResponse))
}

func TestBrokenMetadataIsABadResponse(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.Code(http.StatusOK),
			response.Body([]byte(`{"tables": 7}`)),
		),
	)
	defer s.Close()

	c := NewCubeBuilderClient(s.URL(), Debug("true"))

	_, err := c.BuildCSVW(context.Background(), strings.NewReader(description))
	is.True(errors.Is(err, ErrBadResponse))
}

const description string = `title: Counts
columns:
  - title: Area
    type: dimension
  - title: Value
    type: observations
    dataType: integer
    measure:
      label: Count
    unit:
      label: Things
`

const metadata string = `{
  "@context": "http://www.w3.org/ns/csvw",
  "@id": "counts.csv#dataset",
  "tables": [{
    "url": "counts.csv",
    "tableSchema": {
      "columns": [{"titles": "Area", "name": "area", "required": true}],
      "aboutUrl": "counts.csv#obs/{area}"
    }
  }]
}`
