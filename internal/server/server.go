// Package server implements the embedding contract: it mounts the raw
// document, the runtime configuration object and a single entry page under
// a configurable URL prefix.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/telsh/apiprobe/internal/config"
)

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>API Probe</title>
</head>
<body>
  <div id="app"></div>
</body>
</html>`

type Server struct {
	// Document is the raw description served as JSON.
	Document []byte
	// Runtime is the configuration object served to the client.
	Runtime *config.Runtime
	// StaticDir optionally holds the client bundle. Requests that do not
	// match a bundle file fall through to the entry page.
	StaticDir string
}

// NormalizePrefix forces a mount prefix into canonical form: always
// beginning with "/", never ending with "/" except for the root path.
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "/" {
		return "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimSuffix(prefix, "/")
}

// Mount registers the document route, the configuration route and the
// catch-all entry page under the given prefix.
func (s *Server) Mount(mux *http.ServeMux, prefix string) {
	prefix = NormalizePrefix(prefix)

	base := prefix
	if base == "/" {
		base = ""
	}

	mux.HandleFunc(base+"/openapi.json", s.handleDocument)
	mux.HandleFunc(base+"/config.json", s.handleConfig)
	mux.HandleFunc(base+"/", s.handleIndex(base))
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.Document)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	rt := s.Runtime
	if rt == nil {
		rt = &config.Runtime{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rt)
}

// handleIndex serves bundle files when present and the entry page for every
// other sub-path, so client-side routing works on deep links.
func (s *Server) handleIndex(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.StaticDir != "" {
			rel := strings.TrimPrefix(r.URL.Path, base+"/")
			if rel != "" && !strings.Contains(rel, "..") {
				candidate := filepath.Join(s.StaticDir, filepath.FromSlash(rel))
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					http.ServeFile(w, r, candidate)
					return
				}
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexHTML))
	}
}
