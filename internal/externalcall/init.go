package externalcall

import (
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/internal/configs"
)

func Init(config configs.Configs) {
	InitRegistryClient(RegistryConfigFromConfigs(config))
}

// RegistryConfigFromConfigs maps the flat env config onto the registry client config.
func RegistryConfigFromConfigs(config configs.Configs) RegistryConfig {
	return RegistryConfig{
		Endpoints: map[Environment]RegistryEndpoints{
			EnvironmentProduction: {
				AuthURL:   config.RegistryProductionAuthUrl,
				SearchURL: config.RegistryProductionSearchUrl,
			},
			EnvironmentTest: {
				AuthURL:   config.RegistryTestAuthUrl,
				SearchURL: config.RegistryTestSearchUrl,
			},
		},
		Scopes:   splitList(config.RegistryTokenScopes),
		TokenTTL: time.Duration(config.RegistryTokenTtlSeconds) * time.Second,
		Timeout:  time.Duration(config.RegistryTimeoutSeconds) * time.Second,
	}
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
