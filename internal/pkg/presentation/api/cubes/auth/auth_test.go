package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestAccessIsGrantedByPolicy(t *testing.T) {
	is, authenticator := setupTest(t)

	req := newBuildRequest(http.MethodPost, "csvw", "builder-token")

	grant, err := authenticator.CheckAccess(context.Background(), req, Build{Output: "csvw", Cube: "population"})
	is.NoErr(err)
	is.Equal(grant.Subject, "builder")
}

func TestAccessIsDeniedWithWrongToken(t *testing.T) {
	is, authenticator := setupTest(t)

	req := newBuildRequest(http.MethodPost, "csvw", "someone-else")

	_, err := authenticator.CheckAccess(context.Background(), req, Build{Output: "csvw"})
	is.True(errors.Is(err, ErrAccessDenied))
}

func TestAccessIsDeniedForOtherMethods(t *testing.T) {
	is, authenticator := setupTest(t)

	req := newBuildRequest(http.MethodGet, "csvw", "builder-token")

	_, err := authenticator.CheckAccess(context.Background(), req, Build{Output: "csvw"})
	is.True(errors.Is(err, ErrAccessDenied))
}

func TestPolicyCanRestrictTheOutput(t *testing.T) {
	is, authenticator := setupTest(t)

	_, err := authenticator.CheckAccess(context.Background(),
		newBuildRequest(http.MethodPost, "dsd", "public-token"), Build{Output: "dsd", Cube: "population"})
	is.True(errors.Is(err, ErrAccessDenied)) // public token may only build csvw

	_, err = authenticator.CheckAccess(context.Background(),
		newBuildRequest(http.MethodPost, "csvw", "public-token"), Build{Output: "csvw", Cube: "secret-statistics"})
	is.True(errors.Is(err, ErrAccessDenied)) // nor cubes marked secret

	grant, err := authenticator.CheckAccess(context.Background(),
		newBuildRequest(http.MethodPost, "csvw", "public-token"), Build{Output: "csvw", Cube: "population", Rows: 10})
	is.NoErr(err)
	is.Equal(grant.Subject, "public")
	is.Equal(grant.MaxRows, 100)
}

func TestGrantedRowLimitIsEnforced(t *testing.T) {
	is, authenticator := setupTest(t)

	req := newBuildRequest(http.MethodPost, "csvw", "public-token")

	_, err := authenticator.CheckAccess(context.Background(), req, Build{Output: "csvw", Cube: "population", Rows: 101})
	is.True(errors.Is(err, ErrAccessDenied))
}

func TestBrokenPolicyIsRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewAuthenticator(context.Background(), strings.NewReader("package example.authz\n\nallow = {"))
	is.True(err != nil) // should not accept a broken policy
}

func newBuildRequest(method, output, token string) *http.Request {
	req, _ := http.NewRequest(method, "http://localhost/api/v1/cubes/"+output, nil)
	req.Header.Add("Authorization", "Bearer "+token)
	return req
}

func setupTest(t *testing.T) (*is.I, Enticator) {
	is := is.New(t)

	authenticator, err := NewAuthenticator(context.Background(), strings.NewReader(policy))
	is.NoErr(err)

	return is, authenticator
}

const policy string = `
package example.authz

default allow = false

allow = response {
	input.method == "POST"
	input.path == ["api", "v1", "cubes", "csvw"]
	input.token == "builder-token"
	response := {"subject": "builder"}
}

allow = response {
	input.method == "POST"
	input.token == "public-token"
	input.build.output == "csvw"
	not startswith(input.build.cube, "secret")
	response := {"subject": "public", "maxRows": 100}
}
`
