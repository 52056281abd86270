package loader

import (
	"strings"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"go.yaml.in/yaml/v4"

	"github.com/telsh/apiprobe/internal/model"
)

type transformer struct {
	componentSchemas map[*base.Schema]string
}

// Transform converts a parsed v3 model into the engine's document model.
func Transform(dm *libopenapi.DocumentModel[v3.Document]) *model.Document {
	docModel := dm.Model

	t := &transformer{
		componentSchemas: make(map[*base.Schema]string),
	}

	if docModel.Components != nil && docModel.Components.Schemas != nil {
		for name, proxy := range docModel.Components.Schemas.FromOldest() {
			t.componentSchemas[proxy.Schema()] = "#/components/schemas/" + name
		}
	}

	doc := &model.Document{
		Info:    transformInfo(docModel.Info),
		Servers: transformServers(docModel.Servers),
	}

	if docModel.Components != nil {
		if docModel.Components.Schemas != nil {
			for name, proxy := range docModel.Components.Schemas.FromOldest() {
				schema := t.transformSchema(name, proxy.Schema())
				doc.Components.Schemas = append(doc.Components.Schemas, *schema)
			}
		}
		if docModel.Components.Parameters != nil {
			for name, p := range docModel.Components.Parameters.FromOldest() {
				doc.Components.Parameters = append(doc.Components.Parameters, model.NamedParameter{
					Name:      name,
					Parameter: t.transformParameter(p),
				})
			}
		}
		if docModel.Components.Responses != nil {
			for name, resp := range docModel.Components.Responses.FromOldest() {
				doc.Components.Responses = append(doc.Components.Responses, model.NamedResponse{
					Name:     name,
					Response: t.transformResponse("", resp),
				})
			}
		}
		if docModel.Components.SecuritySchemes != nil {
			for name, scheme := range docModel.Components.SecuritySchemes.FromOldest() {
				doc.Components.SecuritySchemes = append(doc.Components.SecuritySchemes, transformSecurityScheme(name, scheme))
			}
		}
	}

	if docModel.Paths != nil {
		for pathStr, pathItem := range docModel.Paths.PathItems.FromOldest() {
			doc.Paths = append(doc.Paths, t.transformPath(pathStr, pathItem))
		}
	}

	doc.Security = transformSecurityRequirements(docModel.Security)

	return doc
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

func transformServers(servers []*v3.Server) []model.Server {
	var result []model.Server
	for _, s := range servers {
		result = append(result, model.Server{
			URL:         s.URL,
			Description: s.Description,
		})
	}
	return result
}

func (t *transformer) transformPath(pathStr string, pathItem *v3.PathItem) model.Path {
	path := model.Path{Path: pathStr}

	// Use a slice for deterministic ordering
	methods := []struct {
		method model.Method
		op     *v3.Operation
	}{
		{model.MethodGet, pathItem.Get},
		{model.MethodPost, pathItem.Post},
		{model.MethodPut, pathItem.Put},
		{model.MethodDelete, pathItem.Delete},
		{model.MethodPatch, pathItem.Patch},
		{model.MethodHead, pathItem.Head},
		{model.MethodOptions, pathItem.Options},
		{model.MethodTrace, pathItem.Trace},
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		path.Operations = append(path.Operations, t.transformOperation(m.method, pathStr, m.op))
	}

	return path
}

func (t *transformer) transformOperation(method model.Method, path string, op *v3.Operation) model.Operation {
	operation := model.Operation{
		ID:          op.OperationId,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  boolPtr(op.Deprecated),
	}

	for _, p := range op.Parameters {
		operation.Parameters = append(operation.Parameters, t.transformParameter(p))
	}

	if op.RequestBody != nil {
		operation.RequestBody = t.transformRequestBody(op.RequestBody)
	}

	if op.Responses != nil && op.Responses.Codes != nil {
		for code, resp := range op.Responses.Codes.FromOldest() {
			operation.Responses = append(operation.Responses, t.transformResponse(code, resp))
		}
	}

	// A declared security key overrides document security even when empty.
	if op.Security != nil {
		operation.SecurityDeclared = true
		operation.Security = transformSecurityRequirements(op.Security)
	}

	return operation
}

func transformSecurityRequirements(reqs []*base.SecurityRequirement) []model.SecurityRequirement {
	var result []model.SecurityRequirement
	for _, req := range reqs {
		var set model.SecurityRequirement
		if req.Requirements != nil {
			for name, scopes := range req.Requirements.FromOldest() {
				set.Schemes = append(set.Schemes, model.SchemeScopes{
					Name:   name,
					Scopes: scopes,
				})
			}
		}
		result = append(result, set)
	}
	return result
}

func (t *transformer) transformParameter(p *v3.Parameter) model.Parameter {
	param := model.Parameter{
		Name:        p.Name,
		In:          model.ParameterLocation(strings.ToLower(p.In)),
		Description: p.Description,
		Required:    boolPtr(p.Required),
		Deprecated:  p.Deprecated,
	}

	if p.Schema != nil {
		param.Schema = t.transformSchemaProxy(p.Schema)
	}

	return param
}

func (t *transformer) transformRequestBody(rb *v3.RequestBody) *model.RequestBody {
	body := &model.RequestBody{
		Description: rb.Description,
		Required:    boolPtr(rb.Required),
	}

	if rb.Content != nil {
		for mediaType, content := range rb.Content.FromOldest() {
			mtc := model.MediaTypeContent{MediaType: mediaType}
			if content.Schema != nil {
				mtc.Schema = t.transformSchemaProxy(content.Schema)
			}
			body.Content = append(body.Content, mtc)
		}
	}

	return body
}

func (t *transformer) transformResponse(code string, resp *v3.Response) model.Response {
	response := model.Response{
		StatusCode:  code,
		Description: resp.Description,
	}

	if resp.Content != nil {
		for mediaType, content := range resp.Content.FromOldest() {
			mtc := model.MediaTypeContent{MediaType: mediaType}
			if content.Schema != nil {
				mtc.Schema = t.transformSchemaProxy(content.Schema)
			}
			response.Content = append(response.Content, mtc)
		}
	}

	if resp.Headers != nil {
		for name, header := range resp.Headers.FromOldest() {
			h := model.Header{
				Name:        name,
				Description: header.Description,
				Required:    header.Required,
			}
			if header.Schema != nil {
				h.Schema = t.transformSchemaProxy(header.Schema)
			}
			response.Headers = append(response.Headers, h)
		}
	}

	return response
}

func (t *transformer) transformSchemaProxy(proxy *base.SchemaProxy) *model.Schema {
	if proxy == nil {
		return nil
	}

	ref := proxy.GetReference()
	if ref == "" {
		if resolved, ok := t.componentSchemas[proxy.Schema()]; ok {
			return &model.Schema{Ref: resolved}
		}
	}

	if ref != "" {
		return &model.Schema{Ref: ref}
	}

	return t.transformSchema("", proxy.Schema())
}

func (t *transformer) transformSchema(name string, s *base.Schema) *model.Schema {
	if s == nil {
		return nil
	}

	schema := &model.Schema{
		Name:        name,
		Description: s.Description,
		Format:      s.Format,
		Nullable:    boolPtr(s.Nullable),
		Deprecated:  boolPtr(s.Deprecated),
		Default:     decodeNode(s.Default),
		Example:     decodeNode(s.Example),
		Pattern:     s.Pattern,
	}

	if len(s.Type) > 0 {
		schema.Type = model.SchemaType(s.Type[0])
	}

	for _, e := range s.Enum {
		schema.Enum = append(schema.Enum, decodeNode(e))
	}

	if s.Properties != nil {
		for propName, propProxy := range s.Properties.FromOldest() {
			propSchema := t.transformSchemaProxy(propProxy)
			if propSchema != nil && propSchema.Name == "" {
				propSchema.Name = propName
			}
			schema.Properties = append(schema.Properties, model.Property{
				Name:   propName,
				Schema: propSchema,
			})
		}
	}

	schema.Required = s.Required
	schema.RequiredDeclared = s.Required != nil

	if s.Items != nil && s.Items.A != nil {
		schema.Items = t.transformSchemaProxy(s.Items.A)
	}

	if s.AdditionalProperties != nil && s.AdditionalProperties.A != nil {
		schema.AdditionalProperties = t.transformSchemaProxy(s.AdditionalProperties.A)
	}

	for _, proxy := range s.AllOf {
		schema.AllOf = append(schema.AllOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.OneOf {
		schema.OneOf = append(schema.OneOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.AnyOf {
		schema.AnyOf = append(schema.AnyOf, t.transformSchemaProxy(proxy))
	}

	if s.Minimum != nil {
		v := float64(*s.Minimum)
		schema.Minimum = &v
	}
	if s.Maximum != nil {
		v := float64(*s.Maximum)
		schema.Maximum = &v
	}
	if s.MinLength != nil {
		v := int64(*s.MinLength)
		schema.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int64(*s.MaxLength)
		schema.MaxLength = &v
	}
	if s.MinItems != nil {
		v := int64(*s.MinItems)
		schema.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int64(*s.MaxItems)
		schema.MaxItems = &v
	}

	return schema
}

func transformSecurityScheme(name string, scheme *v3.SecurityScheme) model.SecurityScheme {
	ss := model.SecurityScheme{
		Name:         name,
		Type:         model.SecuritySchemeType(scheme.Type),
		Description:  scheme.Description,
		ParamName:    scheme.Name,
		In:           scheme.In,
		Scheme:       scheme.Scheme,
		BearerFormat: scheme.BearerFormat,
	}

	if scheme.Flows != nil {
		ss.Flows = &model.OAuthFlows{}
		if scheme.Flows.Implicit != nil {
			ss.Flows.Implicit = transformOAuthFlow(scheme.Flows.Implicit)
		}
		if scheme.Flows.Password != nil {
			ss.Flows.Password = transformOAuthFlow(scheme.Flows.Password)
		}
		if scheme.Flows.ClientCredentials != nil {
			ss.Flows.ClientCredentials = transformOAuthFlow(scheme.Flows.ClientCredentials)
		}
		if scheme.Flows.AuthorizationCode != nil {
			ss.Flows.AuthorizationCode = transformOAuthFlow(scheme.Flows.AuthorizationCode)
		}
	}

	return ss
}

func transformOAuthFlow(flow *v3.OAuthFlow) *model.OAuthFlow {
	f := &model.OAuthFlow{
		AuthorizationURL: flow.AuthorizationUrl,
		TokenURL:         flow.TokenUrl,
		RefreshURL:       flow.RefreshUrl,
		Scopes:           make(map[string]string),
	}

	if flow.Scopes != nil {
		for scope, desc := range flow.Scopes.FromOldest() {
			f.Scopes[scope] = desc
		}
	}

	return f
}

func decodeNode(n *yaml.Node) any {
	if n == nil {
		return nil
	}
	var out any
	if err := n.Decode(&out); err != nil {
		return nil
	}
	return out
}

func boolPtr(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
