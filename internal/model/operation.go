package model

type Operation struct {
	ID          string
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
	Deprecated  bool

	// Security holds the operation-level requirement list. SecurityDeclared
	// is true whenever the operation carries its own security key, including
	// an explicitly empty list, which disables document-level security.
	Security         []SecurityRequirement
	SecurityDeclared bool
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// HasBody reports whether the method carries a JSON request body when
// dispatched as a test request.
func (m Method) HasBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Deprecated  bool
	Schema      *Schema
}

type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaTypeContent
}

type MediaTypeContent struct {
	MediaType string
	Schema    *Schema
}

type Response struct {
	StatusCode  string
	Description string
	Content     []MediaTypeContent
	Headers     []Header
}

type Header struct {
	Name        string
	Description string
	Required    bool
	Schema      *Schema
}

// SecurityRequirement is one alternative in an OR-of-ANDs security
// declaration: all schemes it names must be satisfied together.
type SecurityRequirement struct {
	Schemes []SchemeScopes
}

type SchemeScopes struct {
	Name   string
	Scopes []string
}
