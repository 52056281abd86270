package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telsh/apiprobe/internal/model"
)

const testDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "Test API", "version": "1.0.0"},
  "security": [{"bearerAuth": []}],
  "paths": {
    "/items": {
      "get": {
        "summary": "List items",
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer"}}
        ],
        "responses": {"200": {"description": "ok"}}
      },
      "post": {
        "security": [],
        "requestBody": {
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/Item"}}
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Item": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "name": {"type": "string"}
        },
        "required": ["id"]
      },
      "Bag": {
        "type": "object",
        "properties": {
          "label": {"type": "string"}
        }
      }
    },
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer"}
    }
  }
}`

func newDocumentServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testDocument))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadFetchesAndTransforms(t *testing.T) {
	srv := newDocumentServer(t)

	result, err := New(srv.URL).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "3.0.3", result.Version)
	require.NotEmpty(t, result.RawData)

	doc := result.Document
	require.Equal(t, "Test API", doc.Info.Title)

	endpoints := doc.Endpoints()
	require.Len(t, endpoints, 2)
	require.Equal(t, model.MethodGet, endpoints[0].Method)
	require.Equal(t, model.MethodPost, endpoints[1].Method)

	item := doc.SchemaByName("Item")
	require.NotNil(t, item)
	require.True(t, item.RequiredDeclared)
	require.Equal(t, []string{"id"}, item.Required)

	bag := doc.SchemaByName("Bag")
	require.NotNil(t, bag)
	require.False(t, bag.RequiredDeclared)
}

func TestLoadTransformsSecurity(t *testing.T) {
	srv := newDocumentServer(t)

	result, err := New(srv.URL).Load(context.Background())
	require.NoError(t, err)
	doc := result.Document

	require.Len(t, doc.Security, 1)
	require.Equal(t, "bearerAuth", doc.Security[0].Schemes[0].Name)

	get := doc.OperationAt("/items", model.MethodGet)
	require.NotNil(t, get)
	require.False(t, get.SecurityDeclared)

	post := doc.OperationAt("/items", model.MethodPost)
	require.NotNil(t, post)
	require.True(t, post.SecurityDeclared)
	require.Empty(t, post.Security)
}

func TestLoadTransformsRequestBodyReference(t *testing.T) {
	srv := newDocumentServer(t)

	result, err := New(srv.URL).Load(context.Background())
	require.NoError(t, err)

	post := result.Document.OperationAt("/items", model.MethodPost)
	require.NotNil(t, post.RequestBody)
	require.Len(t, post.RequestBody.Content, 1)
	require.Equal(t, "#/components/schemas/Item", post.RequestBody.Content[0].Schema.Ref)
}

func TestLoadNonOKStatusIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}

func TestLoadUnparsableBodyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a document"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Load(context.Background())
	require.Error(t, err)
}

func TestLoadSuppressesConcurrentDuplicate(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	started := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	l := New(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background())
		done <- err
	}()

	<-started
	_, err := l.Load(context.Background())
	require.ErrorIs(t, err, ErrLoadInFlight)

	close(release)
	require.NoError(t, <-done)

	// Guard clears once the first load finishes.
	_, err = l.Load(context.Background())
	require.NoError(t, err)
}

func TestLoadsAreIndependentValues(t *testing.T) {
	srv := newDocumentServer(t)
	l := New(srv.URL)

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)

	require.NotSame(t, first.Document, second.Document)
	require.Equal(t, first.Document.Endpoints(), second.Document.Endpoints())
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`{"swagger": "2.0", "info": {"title": "x", "version": "1"}, "paths": {}}`))
	require.Error(t, err)
}
