package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi-validator/schema_validation"

	"github.com/telsh/apiprobe/internal/model"
)

// ErrLoadInFlight is returned when a load is requested while another load
// is still outstanding. The caller should wait for the first load instead
// of racing a second fetch.
var ErrLoadInFlight = errors.New("document load already in flight")

type Result struct {
	Document *model.Document
	Version  string
	Warnings []string
	RawData  []byte
}

// Loader fetches and parses the document from a URL. Each successful load
// yields a fresh independent Document; the previous one is replaced
// wholesale by the caller, never patched.
type Loader struct {
	URL  string
	HTTP *http.Client

	mu      sync.Mutex
	loading bool
}

func New(url string) *Loader {
	return &Loader{URL: url, HTTP: &http.Client{}}
}

// Load fetches and parses the document. A load already in flight suppresses
// a concurrent duplicate with ErrLoadInFlight.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return nil, ErrLoadInFlight
	}
	l.loading = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.loading = false
		l.mu.Unlock()
	}()

	data, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building document request: %w", err)
	}

	client := l.HTTP
	if client == nil {
		client = &http.Client{}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching document: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading document body: %w", err)
	}
	return data, nil
}

// Parse builds a Document from raw description bytes. Structural problems
// reported by the meta-schema validator become warnings, not load errors.
func Parse(data []byte) (*Result, error) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported document version: %s (only 3.x supported)", version)
	}

	result := &Result{
		Version: version,
		RawData: data,
	}

	if valid, validationErrs := schema_validation.ValidateOpenAPIDocument(doc); !valid {
		for _, e := range validationErrs {
			result.Warnings = append(result.Warnings, e.Message)
		}
	}

	v3Model, err := doc.BuildV3Model()
	if err != nil {
		return nil, fmt.Errorf("building document model: %w", err)
	}

	result.Document = Transform(v3Model)
	return result, nil
}
