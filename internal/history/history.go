// Package history records dispatched test requests and their outcomes.
package history

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telsh/apiprobe/internal/model"
)

// Entry is the record of one dispatched request. Terminal fields (Response
// or ResponseError) are filled exactly once when the outcome arrives; after
// that the entry is never mutated.
type Entry struct {
	ID        string
	Timestamp time.Time
	Method    model.Method
	Path      string
	URL       string
	Headers   map[string]string
	Body      string

	Response      *Response
	ResponseError string

	// SchemeName is the authentication scheme used, empty for none.
	SchemeName string
}

// Response holds the recorded outcome of a dispatched request. Body is the
// parsed JSON value for JSON responses and the raw text otherwise.
type Response struct {
	Status  int
	Headers map[string]string
	Body    any
}

// NewEntry creates an entry for a request about to be dispatched.
func NewEntry(method model.Method, path, url string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Method:    method,
		Path:      path,
		URL:       url,
		Headers:   make(map[string]string),
	}
}

// Log is an append-only per-session request log, newest first. It is not
// durable; persistence is a collaborator concern.
type Log struct {
	mu      sync.Mutex
	entries []*Entry
}

// Add prepends an entry to the log.
func (l *Log) Add(e *Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]*Entry{e}, l.entries...)
}

// Entries returns all entries, newest first.
func (l *Log) Entries() []*Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// FilterByEndpoint returns the entries for one endpoint, preserving overall
// newest-first order.
func (l *Log) FilterByEndpoint(path string, method model.Method) []*Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*Entry
	for _, e := range l.entries {
		if e.Path == path && e.Method == method {
			out = append(out, e)
		}
	}
	return out
}

// FormatAsCurl renders an entry as a shell command line. It is a pure
// projection of the recorded fields: the method flag is omitted for GET,
// each header becomes a -H flag, body-bearing methods get a -d flag, and
// the URL comes last.
func FormatAsCurl(e *Entry) string {
	parts := []string{"curl"}

	if e.Method != model.MethodGet {
		parts = append(parts, "-X", string(e.Method))
	}

	names := make([]string, 0, len(e.Headers))
	for name := range e.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := strings.ReplaceAll(e.Headers[name], `"`, `\"`)
		parts = append(parts, fmt.Sprintf(`-H "%s: %s"`, name, value))
	}

	if e.Method.HasBody() && e.Body != "" {
		body := strings.ReplaceAll(e.Body, `'`, `'\''`)
		body = strings.ReplaceAll(body, "\n", `\n`)
		parts = append(parts, fmt.Sprintf(`-d '%s'`, body))
	}

	parts = append(parts, fmt.Sprintf(`"%s"`, e.URL))
	return strings.Join(parts, " ")
}
