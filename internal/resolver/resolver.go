// Package resolver resolves pointer-style references into the nodes they
// designate within a document. It is stateless and pure; cycle protection
// is the caller's responsibility.
package resolver

import (
	"strings"

	"github.com/telsh/apiprobe/internal/model"
)

// Schema resolves a schema pointer such as "#/components/schemas/User".
// It walks the pointer segment by segment and returns nil when any segment
// is missing or does not designate a schema.
func Schema(doc *model.Document, pointer string) *model.Schema {
	segs := segments(pointer)
	if len(segs) != 3 || segs[0] != "components" || segs[1] != "schemas" {
		return nil
	}
	return doc.SchemaByName(segs[2])
}

// Parameter resolves "#/components/parameters/<name>", or nil on a miss.
func Parameter(doc *model.Document, pointer string) *model.Parameter {
	segs := segments(pointer)
	if len(segs) != 3 || segs[0] != "components" || segs[1] != "parameters" {
		return nil
	}
	for i := range doc.Components.Parameters {
		if doc.Components.Parameters[i].Name == segs[2] {
			return &doc.Components.Parameters[i].Parameter
		}
	}
	return nil
}

// Response resolves "#/components/responses/<name>", or nil on a miss.
func Response(doc *model.Document, pointer string) *model.Response {
	segs := segments(pointer)
	if len(segs) != 3 || segs[0] != "components" || segs[1] != "responses" {
		return nil
	}
	for i := range doc.Components.Responses {
		if doc.Components.Responses[i].Name == segs[2] {
			return &doc.Components.Responses[i].Response
		}
	}
	return nil
}

// SecurityScheme resolves "#/components/securitySchemes/<name>", or nil on
// a miss.
func SecurityScheme(doc *model.Document, pointer string) *model.SecurityScheme {
	segs := segments(pointer)
	if len(segs) != 3 || segs[0] != "components" || segs[1] != "securitySchemes" {
		return nil
	}
	return doc.SecuritySchemeByName(segs[2])
}

// Name returns the terminal segment of a pointer, the conventional display
// name of the referenced component.
func Name(pointer string) string {
	segs := segments(pointer)
	if len(segs) == 0 {
		return pointer
	}
	return segs[len(segs)-1]
}

func segments(pointer string) []string {
	p := strings.TrimPrefix(pointer, "#")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
