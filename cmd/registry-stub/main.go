package main

import (
	"strconv"

	"github.com/Meesho/BharatMLStack/company-export/internal/configs"
	"github.com/Meesho/BharatMLStack/company-export/internal/registrystub"
	"github.com/Meesho/BharatMLStack/company-export/pkg/httpframework"
	"github.com/Meesho/BharatMLStack/company-export/pkg/logger"
	"github.com/rs/zerolog/log"
)

const (
	demoUsername = "demo"
	demoAPIKey   = "demo-api-key"
)

type AppConfig struct {
	Configs configs.Configs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

var (
	appConfig AppConfig
)

func main() {
	configs.InitConfig(&appConfig)
	logger.Init(appConfig.Configs)
	cfg := appConfig.Configs

	users, err := registrystub.ParseUsers(cfg.RegistryStubUsers)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid REGISTRY_STUB_USERS")
	}
	if len(users) == 0 {
		hash, err := registrystub.HashAPIKey(demoAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash demo API key")
		}
		users[demoUsername] = hash
		log.Warn().Str("username", demoUsername).Str("api_key", demoAPIKey).
			Msg("REGISTRY_STUB_USERS not set, accepting the demo user only")
	}

	server, err := registrystub.New(registrystub.Config{
		JWTSecret: []byte(cfg.RegistryStubJwtSecret),
		Users:     users,
		Companies: registrystub.GenerateCompanies(cfg.RegistryStubCompanies),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Registry stub initialization failed")
	}

	httpframework.Init(cfg.AppEnv)
	server.Register(httpframework.Instance())

	port := cfg.RegistryStubPort
	log.Info().Int("port", port).Int("companies", cfg.RegistryStubCompanies).Msg("Registry stub listening")
	if err := httpframework.Instance().Run(":" + strconv.Itoa(port)); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped")
	}
}
