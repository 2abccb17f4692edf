package externalcall

import (
	"fmt"
	"net/url"
)

// Environment selects which registry deployment a call goes to.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentTest       Environment = "test"
)

// RegistryEndpoints holds the base urls of one registry environment.
type RegistryEndpoints struct {
	AuthURL   string
	SearchURL string
}

func (e RegistryEndpoints) validate() error {
	for name, raw := range map[string]string{"auth": e.AuthURL, "search": e.SearchURL} {
		parsed, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid %s url %q: %w", name, raw, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid %s url %q: scheme and host are required", name, raw)
		}
	}
	return nil
}

// defaultScope is the single scope needed to call the search endpoint, e.g.
// "GET:company.openapi.com/IT-search".
func (e RegistryEndpoints) defaultScope() string {
	parsed, err := url.Parse(e.SearchURL)
	if err != nil {
		return ""
	}
	return "GET:" + parsed.Host + parsed.Path
}
