package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/open-policy-agent/opa/rego"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("csvcube/api/authz")

var ErrAccessDenied = errors.New("authorization failed")

// Build describes what a request asks the builder to produce. Policies see it
// as input.build.
type Build struct {
	// Output is the requested document, "csvw" or "dsd"
	Output   string `json:"output"`
	Cube     string `json:"cube,omitempty"`
	URIStyle string `json:"uriStyle,omitempty"`
	Columns  int    `json:"columns"`
	Rows     int    `json:"rows"`
}

// Grant is the decision of a policy that allowed a build
type Grant struct {
	Subject string
	MaxRows int
}

type Enticator interface {
	CheckAccess(ctx context.Context, r *http.Request, build Build) (*Grant, error)
}

type enticatorImpl struct {
	preparedQuery rego.PreparedEvalQuery
}

func NewAuthenticator(ctx context.Context, policies io.Reader) (Enticator, error) {

	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read authz policies: %s", err.Error())
	}

	impl := &enticatorImpl{}

	impl.preparedQuery, err = rego.New(
		rego.Query("x = data.example.authz.allow"),
		rego.Module("example.rego", string(module)),
	).PrepareForEval(ctx)

	if err != nil {
		return nil, err
	}

	logging.GetFromContext(ctx).Info("authz policies loaded")

	return impl, nil
}

func bearerToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	token, _ = strings.CutPrefix(token, "Bearer ")
	return token
}

// CheckAccess evaluates the policies with the method, path and token of the
// request together with the build it asks for. A policy allows a build by
// binding an object, optionally with a subject and a maxRows limit.
func (e *enticatorImpl) CheckAccess(ctx context.Context, r *http.Request, build Build) (grant *Grant, err error) {
	_, span := tracer.Start(ctx, "check-auth")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(
		attribute.String("build.output", build.Output),
		attribute.String("build.cube", build.Cube),
	)

	input := map[string]any{
		"method": r.Method,
		"path":   strings.Split(strings.Trim(r.URL.Path, "/"), "/"),
		"token":  bearerToken(r),
		"build": map[string]any{
			"output":   build.Output,
			"cube":     build.Cube,
			"uriStyle": build.URIStyle,
			"columns":  build.Columns,
			"rows":     build.Rows,
		},
	}

	results, err := e.preparedQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		err = fmt.Errorf("opa eval failed: %w", err)
		return nil, err
	}

	if len(results) == 0 {
		err = fmt.Errorf("auth failed: opa query could not be satisfied")
		return nil, err
	}

	switch decision := results[0].Bindings["x"].(type) {
	case bool:
		if !decision {
			err = ErrAccessDenied
			return nil, err
		}
		return &Grant{}, nil
	case map[string]any:
		grant, err = grantFrom(decision)
		if err == nil && grant.MaxRows > 0 && build.Rows > grant.MaxRows {
			err = fmt.Errorf("%w: %d rows exceeds the limit of %d", ErrAccessDenied, build.Rows, grant.MaxRows)
		}
		if err != nil {
			return nil, err
		}
		return grant, nil
	}

	err = errors.New("opa error: unexpected result type")
	return nil, err
}

func grantFrom(decision map[string]any) (*Grant, error) {
	grant := &Grant{}

	if subject, ok := decision["subject"].(string); ok {
		grant.Subject = subject
	}

	if maxRows, ok := decision["maxRows"]; ok {
		// rego numbers arrive as json.Number
		n, err := fmt.Sscan(fmt.Sprint(maxRows), &grant.MaxRows)
		if err != nil || n != 1 {
			return nil, fmt.Errorf("opa error: maxRows must be an integer, got %v", maxRows)
		}
	}

	return grant, nil
}
