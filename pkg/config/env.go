package config

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	initialized = false
	once        sync.Once
)

// InitEnv registers the given defaults with viper and turns on env lookup.
// Registering a key is what lets viper.Unmarshal see its env var.
func InitEnv(defaults map[string]interface{}) {
	if initialized {
		log.Debug().Msg("Env already initialized!")
		return
	}
	once.Do(func() {
		for key, value := range defaults {
			viper.SetDefault(key, value)
		}
		viper.AutomaticEnv()
		initialized = true
		log.Info().Int("keys", len(defaults)).Msg("Env initialized!")
	})
}
