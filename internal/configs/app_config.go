package configs

type Configs struct {
	// App configuration
	AppName               string  `mapstructure:"app_name"`
	AppEnv                string  `mapstructure:"app_env"`
	AppLogLevel           string  `mapstructure:"app_log_level"`
	AppMetricSamplingRate float64 `mapstructure:"app_metric_sampling_rate"`
	AppPort               int     `mapstructure:"app_port"`

	TelegrafAddress  string `mapstructure:"telegraf_address"`
	CorsAllowOrigins string `mapstructure:"cors_allow_origins"`

	// Registry configuration
	RegistryProductionAuthUrl   string `mapstructure:"registry_production_auth_url"`
	RegistryProductionSearchUrl string `mapstructure:"registry_production_search_url"`
	RegistryTestAuthUrl         string `mapstructure:"registry_test_auth_url"`
	RegistryTestSearchUrl       string `mapstructure:"registry_test_search_url"`
	// Comma separated. Empty means one GET scope derived from the search url of the environment.
	RegistryTokenScopes     string `mapstructure:"registry_token_scopes"`
	RegistryTokenTtlSeconds int    `mapstructure:"registry_token_ttl_seconds"`
	RegistryTimeoutSeconds  int    `mapstructure:"registry_timeout_seconds"`

	// Registry stub configuration (cmd/registry-stub only)
	RegistryStubPort      int    `mapstructure:"registry_stub_port"`
	RegistryStubJwtSecret string `mapstructure:"registry_stub_jwt_secret"`
	// username:bcryptHash pairs, comma separated
	RegistryStubUsers     string `mapstructure:"registry_stub_users"`
	RegistryStubCompanies int    `mapstructure:"registry_stub_companies"`
}

// Defaults returns the value used for every config key when the matching env var is unset.
// Every key must be listed here, viper only resolves env vars for keys it already knows.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app_name":                 "company-export",
		"app_env":                  "local",
		"app_log_level":            "INFO",
		"app_metric_sampling_rate": 1.0,
		"app_port":                 8082,

		"telegraf_address":   "localhost:8125",
		"cors_allow_origins": "*",

		"registry_production_auth_url":   "https://oauth.openapi.it",
		"registry_production_search_url": "https://company.openapi.com/IT-search",
		"registry_test_auth_url":         "https://test.oauth.openapi.it",
		"registry_test_search_url":       "https://test.company.openapi.com/IT-search",
		"registry_token_scopes":          "",
		"registry_token_ttl_seconds":     3600,
		"registry_timeout_seconds":       60,

		"registry_stub_port":       8090,
		"registry_stub_jwt_secret": "registry-stub-secret",
		"registry_stub_users":      "",
		"registry_stub_companies":  500,
	}
}
