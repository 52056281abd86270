package security

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telsh/apiprobe/internal/model"
)

func securedDoc() *model.Document {
	return &model.Document{
		Components: model.Components{
			SecuritySchemes: []model.SecurityScheme{
				{Name: "apiKeyAuth", Type: model.SecurityTypeAPIKey, ParamName: "X-API-Key", In: "header"},
				{Name: "bearerAuth", Type: model.SecurityTypeHTTP, Scheme: "bearer"},
				{Name: "basicAuth", Type: model.SecurityTypeHTTP, Scheme: "basic"},
			},
		},
		Security: []model.SecurityRequirement{
			{Schemes: []model.SchemeScopes{{Name: "bearerAuth"}}},
		},
	}
}

func TestAvailableSchemesOperationOverridesDocument(t *testing.T) {
	doc := securedDoc()
	op := &model.Operation{
		SecurityDeclared: true,
		Security: []model.SecurityRequirement{
			{Schemes: []model.SchemeScopes{{Name: "apiKeyAuth"}}},
		},
	}

	schemes := AvailableSchemes(op, doc)
	require.Len(t, schemes, 1)
	require.Equal(t, "apiKeyAuth", schemes[0].Name)
	require.NotNil(t, schemes[0].Scheme)
}

func TestAvailableSchemesExplicitEmptyDisablesSecurity(t *testing.T) {
	doc := securedDoc()
	op := &model.Operation{SecurityDeclared: true}

	require.Empty(t, AvailableSchemes(op, doc))
	require.False(t, RequiresSecurity(op, doc))
}

func TestAvailableSchemesFallsBackToDocument(t *testing.T) {
	doc := securedDoc()
	op := &model.Operation{}

	schemes := AvailableSchemes(op, doc)
	require.Len(t, schemes, 1)
	require.Equal(t, "bearerAuth", schemes[0].Name)
	require.True(t, RequiresSecurity(op, doc))
}

func TestAvailableSchemesDeduplicatesFirstSeen(t *testing.T) {
	doc := securedDoc()
	op := &model.Operation{
		SecurityDeclared: true,
		Security: []model.SecurityRequirement{
			{Schemes: []model.SchemeScopes{{Name: "bearerAuth"}, {Name: "apiKeyAuth"}}},
			{Schemes: []model.SchemeScopes{{Name: "apiKeyAuth"}}},
			{Schemes: []model.SchemeScopes{{Name: "basicAuth"}}},
		},
	}

	schemes := AvailableSchemes(op, doc)
	require.Len(t, schemes, 3)
	require.Equal(t, "bearerAuth", schemes[0].Name)
	require.Equal(t, "apiKeyAuth", schemes[1].Name)
	require.Equal(t, "basicAuth", schemes[2].Name)
}

func TestAvailableSchemesUndeclaredSchemeHasNilDefinition(t *testing.T) {
	doc := securedDoc()
	op := &model.Operation{
		SecurityDeclared: true,
		Security: []model.SecurityRequirement{
			{Schemes: []model.SchemeScopes{{Name: "ghostAuth"}}},
		},
	}

	schemes := AvailableSchemes(op, doc)
	require.Len(t, schemes, 1)
	require.Nil(t, schemes[0].Scheme)
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/items?q=1", nil)
	require.NoError(t, err)
	return req
}

func TestApplyAPIKeyHeader(t *testing.T) {
	req := newRequest(t)
	binding := Binding{Name: "apiKeyAuth", Scheme: &model.SecurityScheme{
		Type: model.SecurityTypeAPIKey, ParamName: "X-API-Key", In: "header",
	}}

	require.NoError(t, Apply(req, binding, Credential{APIKey: "secret"}))
	require.Equal(t, "secret", req.Header.Get("X-API-Key"))
}

func TestApplyAPIKeyQuery(t *testing.T) {
	req := newRequest(t)
	binding := Binding{Name: "apiKeyAuth", Scheme: &model.SecurityScheme{
		Type: model.SecurityTypeAPIKey, ParamName: "api_key", In: "query",
	}}

	require.NoError(t, Apply(req, binding, Credential{APIKey: "secret"}))
	require.Equal(t, "secret", req.URL.Query().Get("api_key"))
	require.Equal(t, "1", req.URL.Query().Get("q"))
}

func TestApplyBasic(t *testing.T) {
	req := newRequest(t)
	binding := Binding{Name: "basicAuth", Scheme: &model.SecurityScheme{
		Type: model.SecurityTypeHTTP, Scheme: "basic",
	}}

	require.NoError(t, Apply(req, binding, Credential{Username: "user", Password: "pass"}))
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))
	require.Equal(t, expected, req.Header.Get("Authorization"))
}

func TestApplyBearer(t *testing.T) {
	req := newRequest(t)
	binding := Binding{Name: "bearerAuth", Scheme: &model.SecurityScheme{
		Type: model.SecurityTypeHTTP, Scheme: "bearer",
	}}

	require.NoError(t, Apply(req, binding, Credential{Token: "abc"}))
	require.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
}

func TestApplyTokenSchemes(t *testing.T) {
	for _, kind := range []model.SecuritySchemeType{model.SecurityTypeOAuth2, model.SecurityTypeOpenIDConnect} {
		t.Run(string(kind), func(t *testing.T) {
			req := newRequest(t)
			binding := Binding{Name: "tokenAuth", Scheme: &model.SecurityScheme{Type: kind}}

			require.NoError(t, Apply(req, binding, Credential{Token: "xyz"}))
			require.Equal(t, "Bearer xyz", req.Header.Get("Authorization"))
		})
	}
}

func TestApplyErrors(t *testing.T) {
	t.Run("nil scheme", func(t *testing.T) {
		req := newRequest(t)
		err := Apply(req, Binding{Name: "ghost"}, Credential{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "not declared")
	})

	t.Run("mutualTLS unsupported", func(t *testing.T) {
		req := newRequest(t)
		binding := Binding{Name: "mtls", Scheme: &model.SecurityScheme{Type: model.SecurityTypeMutualTLS}}
		require.Error(t, Apply(req, binding, Credential{}))
	})

	t.Run("apiKey cookie location unsupported", func(t *testing.T) {
		req := newRequest(t)
		binding := Binding{Name: "cookieAuth", Scheme: &model.SecurityScheme{
			Type: model.SecurityTypeAPIKey, ParamName: "session", In: "cookie",
		}}
		require.Error(t, Apply(req, binding, Credential{APIKey: "x"}))
	})
}
