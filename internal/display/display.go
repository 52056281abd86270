// Package display renders schemas as indented, human-readable text.
package display

import (
	"fmt"
	"strings"

	"github.com/telsh/apiprobe/internal/model"
	"github.com/telsh/apiprobe/internal/resolver"
)

// Format renders a schema's shape as multi-line indented text, annotated
// with its declared constraints.
func Format(s *model.Schema, doc *model.Document) string {
	var b strings.Builder
	write(&b, s, doc, map[string]bool{}, 0, "")
	return strings.TrimRight(b.String(), "\n")
}

func write(b *strings.Builder, s *model.Schema, doc *model.Document, visited map[string]bool, depth int, propName string) {
	indent := strings.Repeat("  ", depth)

	if s == nil {
		line(b, indent, propName, "unknown")
		return
	}

	if s.Ref != "" {
		name := resolver.Name(s.Ref)
		if visited[s.Ref] {
			line(b, indent, propName, name+" (circular)")
			return
		}
		target := resolver.Schema(doc, s.Ref)
		if target == nil {
			line(b, indent, propName, name+" (unresolved)")
			return
		}
		// Removed on the way out so the same reference reached via two
		// independent paths still renders fully on each.
		visited[s.Ref] = true
		write(b, target, doc, visited, depth, propName)
		delete(visited, s.Ref)
		return
	}

	kind := s.EffectiveKind()
	switch kind {
	case "object":
		line(b, indent, propName, "object")
		writeConstraints(b, s, indent, propName)
		for _, prop := range s.Properties {
			write(b, prop.Schema, doc, visited, depth+1, prop.Name)
		}

	case "allOf", "anyOf", "oneOf":
		line(b, indent, propName, kind+":")
		for i, member := range members(s, kind) {
			b.WriteString(strings.Repeat("  ", depth+1))
			fmt.Fprintf(b, "member %d:\n", i+1)
			write(b, member, doc, visited, depth+2, "")
		}

	default:
		line(b, indent, propName, typeLabel(s))
		writeConstraints(b, s, indent, propName)
	}
}

func members(s *model.Schema, kind string) []*model.Schema {
	switch kind {
	case "allOf":
		return s.AllOf
	case "anyOf":
		return s.AnyOf
	default:
		return s.OneOf
	}
}

func line(b *strings.Builder, indent, propName, text string) {
	b.WriteString(indent)
	if propName != "" {
		b.WriteString(propName)
		b.WriteString(": ")
	}
	b.WriteString(text)
	b.WriteString("\n")
}

// typeLabel renders the inline type of a schema: arrays as
// Array<ElementType>, format in parentheses, enum members inlined.
func typeLabel(s *model.Schema) string {
	if s == nil {
		return "unknown"
	}
	if s.Ref != "" {
		return resolver.Name(s.Ref)
	}

	base := s.EffectiveKind()
	if base == "array" {
		return "Array<" + typeLabel(s.Items) + ">"
	}
	if s.Format != "" {
		base += " (" + s.Format + ")"
	}
	if len(s.Enum) > 0 {
		vals := make([]string, 0, len(s.Enum))
		for _, e := range s.Enum {
			vals = append(vals, fmt.Sprint(e))
		}
		base += " enum[" + strings.Join(vals, " | ") + "]"
	}
	return base
}

// writeConstraints emits one indented line of inline constraints after a
// property line. Nothing is written for top-level schemas or when the
// schema declares no constraints.
func writeConstraints(b *strings.Builder, s *model.Schema, indent, propName string) {
	if propName == "" {
		return
	}

	var parts []string
	if s.Pattern != "" {
		parts = append(parts, "pattern: "+s.Pattern)
	}
	if s.Default != nil {
		parts = append(parts, fmt.Sprintf("default: %v", s.Default))
	}
	if s.MinLength != nil {
		parts = append(parts, fmt.Sprintf("minLength: %d", *s.MinLength))
	}
	if s.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("maxLength: %d", *s.MaxLength))
	}
	if s.Minimum != nil {
		parts = append(parts, fmt.Sprintf("minimum: %v", *s.Minimum))
	}
	if s.Maximum != nil {
		parts = append(parts, fmt.Sprintf("maximum: %v", *s.Maximum))
	}
	if len(parts) == 0 {
		return
	}

	b.WriteString(indent)
	b.WriteString("  [")
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("]\n")
}
