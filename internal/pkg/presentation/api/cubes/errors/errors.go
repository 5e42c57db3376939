package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	qberrors "github.com/diwise/csvcube/pkg/qb/errors"
)

//ProblemDetails stores details about a certain problem according to RFC7807
//See https://tools.ietf.org/html/rfc7807
type ProblemDetails interface {
	ContentType() string
	Type() string
	Title() string
	Detail() string
	MarshalJSON() ([]byte, error)
	WriteResponse(w http.ResponseWriter)
}

//ProblemDetailsImpl is an implementation of the ProblemDetails interface
type ProblemDetailsImpl struct {
	typ    string
	title  string
	detail string
	code   int
}

const (
	//ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"

	problemTypeBase string = "https://diwise.io/csvcube/errors/"
)

func newProblem(typ, title, detail string, code int) *ProblemDetailsImpl {
	return &ProblemDetailsImpl{
		typ:    problemTypeBase + typ,
		title:  title,
		detail: detail,
		code:   code,
	}
}

//NewBadRequestData reports a cube description that could not be decoded
func NewBadRequestData(detail string) *ProblemDetailsImpl {
	return newProblem("BadRequestData", "Bad Request Data", detail, http.StatusBadRequest)
}

//NewInvalidCube reports a cube that can not be published as described
func NewInvalidCube(detail string) *ProblemDetailsImpl {
	return newProblem("InvalidCube", "Invalid Cube", detail, http.StatusUnprocessableEntity)
}

func NewStructuralConflict(detail string) *ProblemDetailsImpl {
	return newProblem("StructuralConflict", "Structural Conflict", detail, http.StatusUnprocessableEntity)
}

func NewUnresolvableValueURL(detail string) *ProblemDetailsImpl {
	return newProblem("UnresolvableValueURL", "Unresolvable Value URL", detail, http.StatusUnprocessableEntity)
}

func NewUnplaceableRDFFragment(detail string) *ProblemDetailsImpl {
	return newProblem("UnplaceableRDFFragment", "Unplaceable RDF Fragment", detail, http.StatusUnprocessableEntity)
}

func NewMissingObservationBackReference(detail string) *ProblemDetailsImpl {
	return newProblem("MissingObservationBackReference", "Missing Observation Back Reference", detail, http.StatusUnprocessableEntity)
}

//NewDataValidationFailed reports cell values that do not agree with the cube
func NewDataValidationFailed(detail string) *ProblemDetailsImpl {
	return newProblem("DataValidationFailed", "Data Validation Failed", detail, http.StatusUnprocessableEntity)
}

func NewUnauthorizedRequest(detail string) *ProblemDetailsImpl {
	return newProblem("UnauthorizedRequest", "Unauthorized Request", detail, http.StatusUnauthorized)
}

func NewInternalError(detail string) *ProblemDetailsImpl {
	return newProblem("InternalError", "Internal Error", detail, http.StatusInternalServerError)
}

//ReportNewBadRequestData creates a BadRequestData problem and sends it to the supplied http.ResponseWriter
func ReportNewBadRequestData(w http.ResponseWriter, detail string) {
	NewBadRequestData(detail).WriteResponse(w)
}

func ReportUnauthorizedRequest(w http.ResponseWriter, detail string) {
	NewUnauthorizedRequest(detail).WriteResponse(w)
}

//ReportBuildError maps a failed build to the problem that best describes it
func ReportBuildError(w http.ResponseWriter, err error) {
	detail := err.Error()

	switch {
	case errors.Is(err, qberrors.ErrStructuralConflict):
		NewStructuralConflict(detail).WriteResponse(w)
	case errors.Is(err, qberrors.ErrUnresolvableValueURL):
		NewUnresolvableValueURL(detail).WriteResponse(w)
	case errors.Is(err, qberrors.ErrUnplaceableRDFFragment):
		NewUnplaceableRDFFragment(detail).WriteResponse(w)
	case errors.Is(err, qberrors.ErrMissingObservationBackReference):
		NewMissingObservationBackReference(detail).WriteResponse(w)
	case errors.Is(err, qberrors.ErrDataValidation):
		NewDataValidationFailed(detail).WriteResponse(w)
	case errors.Is(err, qberrors.ErrInvalidCube):
		NewInvalidCube(detail).WriteResponse(w)
	default:
		NewInternalError(detail).WriteResponse(w)
	}
}

func (p *ProblemDetailsImpl) Type() string   { return p.typ }
func (p *ProblemDetailsImpl) Title() string  { return p.title }
func (p *ProblemDetailsImpl) Detail() string { return p.detail }

//ContentType returns the ContentType to be used when returning this problem
func (p *ProblemDetailsImpl) ContentType() string {
	return ProblemReportContentType
}

//MarshalJSON is called when a ProblemDetailsImpl instance should be serialized to JSON
func (p *ProblemDetailsImpl) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}{
		Type:   p.typ,
		Title:  p.title,
		Status: p.ResponseCode(),
		Detail: p.detail,
	})
}

//ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *ProblemDetailsImpl) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}
	return http.StatusBadRequest
}

//WriteResponse writes the contents of this instance to a http.ResponseWriter
func (p *ProblemDetailsImpl) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
