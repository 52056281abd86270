// Package request builds, authenticates and dispatches test requests.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/telsh/apiprobe/internal/history"
	"github.com/telsh/apiprobe/internal/model"
	"github.com/telsh/apiprobe/internal/security"
)

// Input is the user-entered state for one dispatch attempt.
type Input struct {
	// Values maps parameter names to entered values. Names matching a
	// path-location parameter substitute the path placeholder; every other
	// non-empty value becomes a query parameter.
	Values map[string]string

	// BodyText is the raw request body for body-bearing methods.
	BodyText string

	// SchemeName selects the authentication scheme, empty for none.
	SchemeName string
}

// Client dispatches synthesized requests. Timeouts and retries are left to
// the transport.
type Client struct {
	HTTP *http.Client
}

func NewClient() *Client {
	return &Client{HTTP: &http.Client{}}
}

// BuildAndSend synthesizes a request for the endpoint, dispatches it and
// returns the history entry describing the outcome. Failures never
// propagate as errors: an invalid body or transport failure lands on the
// entry as a string.
func (c *Client) BuildAndSend(ctx context.Context, endpoint model.Endpoint, in Input, creds security.Credentials, doc *model.Document, baseHost string) *history.Entry {
	op := endpoint.Operation

	path := endpoint.Path
	consumed := make(map[string]bool)
	if op != nil {
		for _, p := range op.Parameters {
			if p.In != model.LocationPath {
				continue
			}
			value, ok := in.Values[p.Name]
			if !ok {
				continue
			}
			path = strings.ReplaceAll(path, "{"+p.Name+"}", url.PathEscape(value))
			consumed[p.Name] = true
		}
	}

	query := url.Values{}
	for name, value := range in.Values {
		if consumed[name] || value == "" {
			continue
		}
		query.Set(name, value)
	}

	target := strings.TrimSuffix(baseHost, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	entry := history.NewEntry(endpoint.Method, endpoint.Path, target)
	entry.SchemeName = in.SchemeName

	var body io.Reader
	if endpoint.Method.HasBody() && in.BodyText != "" {
		var parsed any
		if err := json.Unmarshal([]byte(in.BodyText), &parsed); err != nil {
			entry.ResponseError = "Invalid JSON in request body"
			return entry
		}
		entry.Body = in.BodyText
		body = bytes.NewBufferString(in.BodyText)
	}

	req, err := http.NewRequestWithContext(ctx, string(endpoint.Method), target, body)
	if err != nil {
		entry.ResponseError = err.Error()
		return entry
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if in.SchemeName != "" {
		binding := security.Binding{
			Name:   in.SchemeName,
			Scheme: doc.SecuritySchemeByName(in.SchemeName),
		}
		if err := security.Apply(req, binding, creds[in.SchemeName]); err != nil {
			entry.ResponseError = err.Error()
			return entry
		}
	}

	for name := range req.Header {
		entry.Headers[name] = req.Header.Get(name)
	}
	entry.URL = req.URL.String()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		entry.ResponseError = err.Error()
		return entry
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.ResponseError = err.Error()
		return entry
	}

	entry.Response = &history.Response{
		Status:  resp.StatusCode,
		Headers: flattenHeaders(resp.Header),
		Body:    classifyBody(resp.Header.Get("Content-Type"), raw),
	}
	return entry
}

// classifyBody parses JSON responses into structured values and keeps
// everything else as raw text.
func classifyBody(contentType string, raw []byte) any {
	if strings.Contains(contentType, "json") {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			return parsed
		}
	}
	return string(raw)
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name := range h {
		out[name] = h.Get(name)
	}
	return out
}
