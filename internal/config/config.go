package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	// SpecURL is the document source, fetched over HTTP GET.
	SpecURL string `koanf:"spec-url"`
	// ServiceHost is the base URL test requests are dispatched against.
	ServiceHost string `koanf:"service-host"`
	// ConfigURL optionally points at a runtime configuration endpoint.
	ConfigURL string `koanf:"config-url"`
	// Listen is the embedding server bind address.
	Listen string `koanf:"listen"`
	// PathPrefix mounts the embedding server routes under a prefix.
	PathPrefix string `koanf:"path-prefix"`
}

// Runtime is the small optional configuration object fetched at startup.
// Unknown keys are ignored; clerk keys are passed through untouched.
type Runtime struct {
	ServiceHost                      string `json:"serviceHost"`
	OpenAPISpecURL                   string `json:"openApiSpecUrl"`
	ClerkPublishableKey              string `json:"clerkPublishableKey"`
	ClerkKey                         string `json:"clerkKey"`
	DefaultServiceHostToWindowOrigin bool   `json:"defaultServiceHostToWindowOrigin"`
}

// BindCommonFlags binds shared flags to a command.
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: apiprobe.yaml)")
	flags.StringP("spec-url", "s", "", "URL of the API description document")
	flags.String("service-host", "", "Base URL for test requests")
	flags.String("config-url", "", "URL of the runtime configuration object")
	flags.String("listen", "", "Embedding server listen address")
	flags.String("path-prefix", "", "URL prefix the embedding server mounts under")
}

// Load layers an optional apiprobe.yaml file under any flags that were set.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat("apiprobe.yaml"); err == nil {
			configFile = "apiprobe.yaml"
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	for _, name := range []string{"spec-url", "service-host", "config-url", "listen", "path-prefix"} {
		if v := getString(name); v != "" {
			m[name] = v
		}
	}

	return m
}

func (c *Config) Validate() error {
	if c.SpecURL == "" {
		return fmt.Errorf("spec-url is required")
	}
	return nil
}

// FetchRuntime retrieves the runtime configuration object. Callers treat
// any error as non-fatal and fall back to static defaults.
func FetchRuntime(ctx context.Context, client *http.Client, url string) (*Runtime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building runtime config request: %w", err)
	}

	if client == nil {
		client = &http.Client{}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching runtime config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching runtime config: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading runtime config: %w", err)
	}

	var rt Runtime
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("parsing runtime config: %w", err)
	}
	return &rt, nil
}

// ApplyRuntime overlays runtime values over the static configuration.
func (c *Config) ApplyRuntime(rt *Runtime) {
	if rt == nil {
		return
	}
	if rt.ServiceHost != "" {
		c.ServiceHost = rt.ServiceHost
	}
	if rt.OpenAPISpecURL != "" {
		c.SpecURL = rt.OpenAPISpecURL
	}
}
