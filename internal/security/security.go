// Package security determines which authentication schemes apply to an
// operation and injects credentials into outbound test requests.
package security

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/telsh/apiprobe/internal/model"
)

// Binding pairs a scheme name with its definition from the document
// components. Scheme is nil when the name is not declared.
type Binding struct {
	Name   string
	Scheme *model.SecurityScheme
}

// AvailableSchemes returns the schemes usable for an operation,
// de-duplicated by name in first-seen order. Operation-level security,
// when declared, fully overrides document-level security, including an
// explicitly empty list meaning no security.
func AvailableSchemes(op *model.Operation, doc *model.Document) []Binding {
	seen := make(map[string]bool)
	var out []Binding
	for _, req := range requirements(op, doc) {
		for _, ss := range req.Schemes {
			if seen[ss.Name] {
				continue
			}
			seen[ss.Name] = true
			out = append(out, Binding{
				Name:   ss.Name,
				Scheme: doc.SecuritySchemeByName(ss.Name),
			})
		}
	}
	return out
}

// RequiresSecurity reports whether the effective requirement list for the
// operation is non-empty.
func RequiresSecurity(op *model.Operation, doc *model.Document) bool {
	return len(requirements(op, doc)) > 0
}

func requirements(op *model.Operation, doc *model.Document) []model.SecurityRequirement {
	if op != nil && op.SecurityDeclared {
		return op.Security
	}
	return doc.Security
}

// Credential holds externally obtained secrets for one scheme. Credentials
// live in memory only and are never written to durable storage.
type Credential struct {
	APIKey   string
	Username string
	Password string
	Token    string
}

// Credentials maps scheme names to their secrets.
type Credentials map[string]Credential

// Apply injects a credential into the request according to the scheme's
// type: apiKey into its declared header or query location, http basic as a
// base64 Authorization value, http bearer and the token schemes as
// "Bearer <token>".
func Apply(req *http.Request, binding Binding, cred Credential) error {
	scheme := binding.Scheme
	if scheme == nil {
		return fmt.Errorf("security scheme %q is not declared in the document", binding.Name)
	}

	switch scheme.Type {
	case model.SecurityTypeAPIKey:
		switch scheme.In {
		case "header":
			req.Header.Set(scheme.ParamName, cred.APIKey)
		case "query":
			q := req.URL.Query()
			q.Set(scheme.ParamName, cred.APIKey)
			req.URL.RawQuery = q.Encode()
		default:
			return fmt.Errorf("unsupported apiKey location %q", scheme.In)
		}

	case model.SecurityTypeHTTP:
		if strings.EqualFold(scheme.Scheme, "basic") {
			payload := base64.StdEncoding.EncodeToString([]byte(cred.Username + ":" + cred.Password))
			req.Header.Set("Authorization", "Basic "+payload)
		} else {
			req.Header.Set("Authorization", "Bearer "+cred.Token)
		}

	case model.SecurityTypeOAuth2, model.SecurityTypeOpenIDConnect:
		req.Header.Set("Authorization", "Bearer "+cred.Token)

	default:
		return fmt.Errorf("unsupported security scheme type %q", scheme.Type)
	}

	return nil
}
