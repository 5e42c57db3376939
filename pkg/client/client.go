package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/diwise/csvcube/pkg/csvw"
	qberrors "github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var ErrRequest = fmt.Errorf("request error")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrUnauthorized = fmt.Errorf("unauthorized")
var ErrInternal = fmt.Errorf("internal error")

//go:generate moq -rm -out cubebuilderclient_mock.go . CubeBuilderClient

// CubeBuilderClient talks to the build api of a cube-builder service
type CubeBuilderClient interface {
	BuildCSVW(ctx context.Context, description io.Reader) (*CSVWResult, error)
	BuildDSD(ctx context.Context, description io.Reader) (*DSDResult, error)
}

type CSVWResult struct {
	BuildID  string
	Metadata csvw.Metadata
}

type DSDResult struct {
	BuildID string
	Graph   json.RawMessage
}

func Debug(enabled string) func(*cbClient) {
	return func(c *cbClient) {
		c.debug = (enabled == "true")
	}
}

func Token(token string) func(*cbClient) {
	return func(c *cbClient) {
		c.token = token
	}
}

func NewCubeBuilderClient(builder string, options ...func(*cbClient)) CubeBuilderClient {
	c := &cbClient{
		baseURL: strings.TrimSuffix(builder, "/"),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	BuildIDHeader         string = "X-Build-ID"
	TraceAttributeBuildID string = "csvcube.build_id"

	yamlContentType string = "application/yaml"
)

var tracer = otel.Tracer("csvcube/client")

type cbClient struct {
	baseURL string
	token   string
	debug   bool
}

func (c cbClient) BuildCSVW(ctx context.Context, description io.Reader) (*CSVWResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "build-csvw")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	resp, respBody, err := c.build(ctx, "/api/v1/cubes/csvw", description)
	if err != nil {
		return nil, err
	}

	result := &CSVWResult{BuildID: resp.Header.Get(BuildIDHeader)}
	span.SetAttributes(attribute.String(TraceAttributeBuildID, result.BuildID))

	err = json.Unmarshal(respBody, &result.Metadata)
	if err != nil {
		if c.debug && len(respBody) < 1000 {
			err = fmt.Errorf("unmarshaling of %s failed with err %s", string(respBody), err.Error())
		}
		err = fmt.Errorf("%s (%w)", err.Error(), ErrBadResponse)
		return nil, err
	}

	return result, nil
}

func (c cbClient) BuildDSD(ctx context.Context, description io.Reader) (*DSDResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "build-dsd")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	resp, respBody, err := c.build(ctx, "/api/v1/cubes/dsd", description)
	if err != nil {
		return nil, err
	}

	if !json.Valid(respBody) {
		err = fmt.Errorf("data structure definition is not valid json (%w)", ErrBadResponse)
		return nil, err
	}

	result := &DSDResult{
		BuildID: resp.Header.Get(BuildIDHeader),
		Graph:   json.RawMessage(respBody),
	}
	span.SetAttributes(attribute.String(TraceAttributeBuildID, result.BuildID))

	return result, nil
}

func (c cbClient) build(ctx context.Context, path string, description io.Reader) (*http.Response, []byte, error) {
	resp, respBody, err := c.callCubeBuilder(ctx, http.MethodPost, c.baseURL+path, description)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, nil, NewErrorFromProblemReport(resp.StatusCode, respBody)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected response code %d (%w)", resp.StatusCode, ErrInternal)
	}

	return resp, respBody, nil
}

func (c cbClient) callCubeBuilder(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), ErrInternal)
	}

	req.Header.Add("Content-Type", yamlContentType)
	req.Header.Add("Accept", csvw.MetadataContentType+", application/ld+json")

	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusUnauthorized {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		logging.GetFromContext(ctx).Error("request failed", "request", string(reqbytes), "response", string(respbytes))
	}

	return resp, respBody, nil
}

type buildError struct {
	msg    string
	target error
}

func (e buildError) Error() string        { return e.msg }
func (e buildError) Is(target error) bool { return target == e.target }

var problemTypes = map[string]error{
	"BadRequestData":                  ErrBadRequest,
	"UnauthorizedRequest":             ErrUnauthorized,
	"InternalError":                   ErrInternal,
	"InvalidCube":                     qberrors.ErrInvalidCube,
	"StructuralConflict":              qberrors.ErrStructuralConflict,
	"UnresolvableValueURL":            qberrors.ErrUnresolvableValueURL,
	"UnplaceableRDFFragment":          qberrors.ErrUnplaceableRDFFragment,
	"MissingObservationBackReference": qberrors.ErrMissingObservationBackReference,
	"DataValidationFailed":            qberrors.ErrDataValidation,
}

// NewErrorFromProblemReport maps a problem report from the build api back to
// the error it was reported for, so that callers can use errors.Is
func NewErrorFromProblemReport(code int, body []byte) error {
	report := &struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}{}

	err := json.Unmarshal(body, report)
	if err != nil {
		return fmt.Errorf("failed to process problem report (status %d): %s (%w)", code, err.Error(), ErrBadResponse)
	}

	typ := report.Type[strings.LastIndex(report.Type, "/")+1:]
	if target, ok := problemTypes[typ]; ok {
		return &buildError{msg: report.Detail, target: target}
	}

	if code == http.StatusUnauthorized {
		return &buildError{msg: report.Detail, target: ErrUnauthorized}
	}

	if code < http.StatusInternalServerError {
		return &buildError{msg: report.Detail, target: ErrBadRequest}
	}

	return &buildError{msg: report.Detail, target: ErrInternal}
}
