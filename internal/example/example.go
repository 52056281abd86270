// Package example synthesizes representative JSON values from schemas.
package example

import (
	"github.com/telsh/apiprobe/internal/model"
	"github.com/telsh/apiprobe/internal/resolver"
)

// Circular is returned when a reference re-enters itself along one
// recursion path.
const Circular = "[Circular]"

// Synthesize produces a representative JSON value for a schema. The result
// is a pure function of (schema, document): identical inputs always yield
// structurally equal output.
func Synthesize(s *model.Schema, doc *model.Document) any {
	return synthesize(s, doc, map[string]bool{})
}

func synthesize(s *model.Schema, doc *model.Document, visited map[string]bool) any {
	if s == nil {
		return nil
	}

	if s.Ref != "" {
		if visited[s.Ref] {
			return Circular
		}
		target := resolver.Schema(doc, s.Ref)
		if target == nil {
			return nil
		}
		// Branch-local copy: a reference re-entered along the same path is
		// caught, while sibling branches stay unaffected.
		branch := make(map[string]bool, len(visited)+1)
		for k := range visited {
			branch[k] = true
		}
		branch[s.Ref] = true
		return synthesize(target, doc, branch)
	}

	if s.Example != nil {
		return s.Example
	}

	if len(s.Enum) > 0 {
		return s.Enum[0]
	}

	switch s.EffectiveKind() {
	case "string":
		switch s.Format {
		case "date":
			return "2024-01-01"
		case "date-time":
			return "2024-01-01T00:00:00Z"
		case "email":
			return "example@example.com"
		case "uri":
			return "https://example.com"
		case "uuid":
			return "123e4567-e89b-12d3-a456-426614174000"
		}
		if s.Default != nil {
			return s.Default
		}
		return "string"

	case "integer":
		if s.Default != nil {
			return s.Default
		}
		return 0

	case "number":
		if s.Default != nil {
			return s.Default
		}
		return 0.0

	case "boolean":
		if s.Default != nil {
			return s.Default
		}
		return false

	case "array":
		item := synthesize(s.Items, doc, visited)
		if s.MinItems != nil && *s.MinItems > 0 {
			out := make([]any, 0, *s.MinItems)
			for i := int64(0); i < *s.MinItems; i++ {
				out = append(out, item)
			}
			return out
		}
		return []any{item}

	case "object":
		out := make(map[string]any, len(s.Properties))
		for _, prop := range s.Properties {
			// Only required properties are included when a required list is
			// declared; without one every property is included. Preserved
			// source behavior.
			if s.RequiredDeclared && !contains(s.Required, prop.Name) {
				continue
			}
			out[prop.Name] = synthesize(prop.Schema, doc, visited)
		}
		return out

	case "anyOf":
		if len(s.AnyOf) == 0 {
			return map[string]any{}
		}
		return synthesize(s.AnyOf[0], doc, visited)

	case "oneOf":
		if len(s.OneOf) == 0 {
			return map[string]any{}
		}
		return synthesize(s.OneOf[0], doc, visited)

	case "allOf":
		merged := make(map[string]any)
		for _, member := range s.AllOf {
			v := synthesize(member, doc, visited)
			obj, ok := v.(map[string]any)
			if !ok {
				continue
			}
			for k, val := range obj {
				merged[k] = val
			}
		}
		return merged
	}

	return nil
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
