package model

type Schema struct {
	Name        string
	Description string
	Type        SchemaType
	Format      string
	Nullable    bool
	Deprecated  bool
	Default     any
	Example     any

	// Object properties
	Properties []Property
	Required   []string
	// RequiredDeclared distinguishes `required: []` from an absent required
	// key. Example synthesis includes only required properties when the key
	// is declared and all properties when it is not.
	RequiredDeclared bool

	// Array items
	Items *Schema

	// Enum values
	Enum []any

	// Composition
	AllOf []*Schema
	OneOf []*Schema
	AnyOf []*Schema

	// Reference
	Ref string

	// Additional properties for maps
	AdditionalProperties *Schema

	// Constraints
	Minimum   *float64
	Maximum   *float64
	MinLength *int64
	MaxLength *int64
	Pattern   string
	MinItems  *int64
	MaxItems  *int64
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

// EffectiveKind returns the dispatch kind for a schema. Without an explicit
// type, anyOf, oneOf and allOf take precedence in that order; everything
// else is treated as an object.
func (s *Schema) EffectiveKind() string {
	if s.Type != "" {
		return string(s.Type)
	}
	if len(s.AnyOf) > 0 {
		return "anyOf"
	}
	if len(s.OneOf) > 0 {
		return "oneOf"
	}
	if len(s.AllOf) > 0 {
		return "allOf"
	}
	return string(TypeObject)
}

type Property struct {
	Name   string
	Schema *Schema
}

type SecurityScheme struct {
	Name        string
	Type        SecuritySchemeType
	Description string
	// ParamName is the apiKey parameter name, distinct from the scheme's
	// component name.
	ParamName    string
	In           string
	Scheme       string
	BearerFormat string
	Flows        *OAuthFlows
}

type SecuritySchemeType string

const (
	SecurityTypeAPIKey        SecuritySchemeType = "apiKey"
	SecurityTypeHTTP          SecuritySchemeType = "http"
	SecurityTypeOAuth2        SecuritySchemeType = "oauth2"
	SecurityTypeOpenIDConnect SecuritySchemeType = "openIdConnect"
	SecurityTypeMutualTLS     SecuritySchemeType = "mutualTLS"
)

type OAuthFlows struct {
	Implicit          *OAuthFlow
	Password          *OAuthFlow
	ClientCredentials *OAuthFlow
	AuthorizationCode *OAuthFlow
}

type OAuthFlow struct {
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           map[string]string
}
