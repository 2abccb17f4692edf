package configs

import (
	"log"

	"github.com/Meesho/BharatMLStack/company-export/pkg/config"
	"github.com/spf13/viper"
)

// ConfigHolder interface for app config
type ConfigHolder interface {
	GetStaticConfig() interface{}
}

// InitConfig loads the static config from environment variables
func InitConfig(configHolder ConfigHolder) {
	config.InitEnv(Defaults())

	staticConfig := configHolder.GetStaticConfig()
	cfg, ok := staticConfig.(*Configs)
	if !ok {
		log.Fatal("Failed to cast static config to *Configs")
	}

	// This maps APP_NAME (env) -> app_name (config key)
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to unmarshal config from environment: %v", err)
	}

	log.Println("Configuration loaded from environment variables")
}
