package model

import (
	"sort"
	"strings"
)

// Document is one immutable load of an API description. A refresh produces
// a new Document value; nothing mutates an existing one in place.
type Document struct {
	Info       Info
	Servers    []Server
	Paths      []Path
	Components Components
	Security   []SecurityRequirement
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type Server struct {
	URL         string
	Description string
}

type Path struct {
	Path       string
	Operations []Operation
}

// Components holds the document's named reusable definitions in declaration
// order.
type Components struct {
	Schemas         []Schema
	Parameters      []NamedParameter
	Responses       []NamedResponse
	SecuritySchemes []SecurityScheme
}

type NamedParameter struct {
	Name      string
	Parameter Parameter
}

type NamedResponse struct {
	Name     string
	Response Response
}

// Endpoint is the flattened (path, method, operation) view used for listing
// and dispatch. Endpoints are derived, never stored.
type Endpoint struct {
	Path      string
	Method    Method
	Operation *Operation
}

// Endpoints re-derives the flattened endpoint list, totally ordered by path
// then upper-cased method, both lexical ascending. The order is stable for
// identical documents.
func (d *Document) Endpoints() []Endpoint {
	var endpoints []Endpoint
	for i := range d.Paths {
		p := &d.Paths[i]
		for j := range p.Operations {
			endpoints = append(endpoints, Endpoint{
				Path:      p.Path,
				Method:    p.Operations[j].Method,
				Operation: &p.Operations[j],
			})
		}
	}
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		mi := strings.ToUpper(string(endpoints[i].Method))
		mj := strings.ToUpper(string(endpoints[j].Method))
		return mi < mj
	})
	return endpoints
}

// OperationAt returns the operation registered for a path and method, or
// nil if the document declares none.
func (d *Document) OperationAt(path string, method Method) *Operation {
	for i := range d.Paths {
		if d.Paths[i].Path != path {
			continue
		}
		for j := range d.Paths[i].Operations {
			if d.Paths[i].Operations[j].Method == method {
				return &d.Paths[i].Operations[j]
			}
		}
	}
	return nil
}

// SchemaByName returns a component schema by name, or nil if not declared.
func (d *Document) SchemaByName(name string) *Schema {
	for i := range d.Components.Schemas {
		if d.Components.Schemas[i].Name == name {
			return &d.Components.Schemas[i]
		}
	}
	return nil
}

// SecuritySchemeByName returns a named security scheme, or nil.
func (d *Document) SecuritySchemeByName(name string) *SecurityScheme {
	for i := range d.Components.SecuritySchemes {
		if d.Components.SecuritySchemes[i].Name == name {
			return &d.Components.SecuritySchemes[i]
		}
	}
	return nil
}
