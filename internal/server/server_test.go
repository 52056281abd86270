package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telsh/apiprobe/internal/config"
)

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "/"},
		{"/", "/"},
		{"/docs", "/docs"},
		{"docs", "/docs"},
		{"/docs/", "/docs"},
		{"docs/", "/docs"},
		{"/a/b/", "/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, NormalizePrefix(tt.input))
		})
	}
}

func newMounted(t *testing.T, prefix string) *httptest.Server {
	t.Helper()
	srv := &Server{
		Document: []byte(`{"openapi":"3.0.3"}`),
		Runtime:  &config.Runtime{ServiceHost: "http://svc.example"},
	}
	mux := http.NewServeMux()
	srv.Mount(mux, prefix)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestMountServesDocument(t *testing.T) {
	ts := newMounted(t, "/docs")

	resp, err := http.Get(ts.URL + "/docs/openapi.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Equal(t, "3.0.3", doc["openapi"])
}

func TestMountServesConfig(t *testing.T) {
	ts := newMounted(t, "/docs")

	resp, err := http.Get(ts.URL + "/docs/config.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	var rt config.Runtime
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rt))
	require.Equal(t, "http://svc.example", rt.ServiceHost)
}

func TestMountCatchAllServesEntryPage(t *testing.T) {
	ts := newMounted(t, "/docs")

	for _, path := range []string{"/docs/", "/docs/endpoints/items", "/docs/deep/link/here"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	}
}

func TestMountAtRootPrefix(t *testing.T) {
	ts := newMounted(t, "/")

	resp, err := http.Get(ts.URL + "/openapi.json")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/any/sub/path")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStaticDirFilesServedWhenPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	srv := &Server{
		Document:  []byte(`{}`),
		StaticDir: dir,
	}
	mux := http.NewServeMux()
	srv.Mount(mux, "/docs")
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/docs/app.js")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Missing bundle file falls through to the entry page.
	resp, err = http.Get(ts.URL + "/docs/missing.js")
	require.NoError(t, err)
	resp.Body.Close()
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
