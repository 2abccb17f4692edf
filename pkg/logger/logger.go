package logger

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/Meesho/BharatMLStack/company-export/internal/configs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultAppName  = "company-export"
	defaultLogLevel = "INFO"
)

var (
	once        sync.Once
	initialized = false
)

// Init initializes the logger by fetching the log level and app name from the app configuration
func Init(config configs.Configs) {
	appName := config.AppName
	logLevel := config.AppLogLevel

	if len(appName) == 0 {
		appName = defaultAppName
		log.Warn().Msgf("App name not set, defaulting to '%s'", defaultAppName)
	}
	if len(logLevel) == 0 {
		log.Warn().Msgf("Log level not set, defaulting to %s", defaultLogLevel)
		logLevel = defaultLogLevel
	}
	initLogger(appName, logLevel)
}

func initLogger(appName, logLevel string) {
	if initialized {
		log.Debug().Msgf("Logger already initialized!")
		return
	}
	once.Do(func() {
		level, ok := parseLevel(logLevel)
		if !ok {
			log.Warn().Msgf("Incorrect log level - %s, defaulting to %s", logLevel, defaultLogLevel)
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)

		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "02-01-2006 15:04:05.000",
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("%-6s", i))
			},
			FormatMessage: func(i interface{}) string {
				return fmt.Sprintf("%s", i)
			},
			FieldsExclude: []string{
				"applicationName",
			},
			PartsOrder: []string{
				"applicationName",
				zerolog.TimestampFieldName,
				zerolog.LevelFieldName,
				zerolog.CallerFieldName,
				zerolog.MessageFieldName,
			},
		}).With().Caller().Str("applicationName", appName).Logger()

		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			lineNum := strconv.Itoa(line)
			parts := strings.Split(file, "/")
			return parts[len(parts)-1] + ":" + lineNum
		}

		// add stack trace to error
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			return fmt.Sprintf("%s\n%s", err, debug.Stack())
		}

		// zerolog.Ctx falls back to this when a context carries no logger
		zerolog.DefaultContextLogger = &log.Logger

		initialized = true
		log.Info().Str("level", level.String()).Msg("Logger initialized!")
	})
}

func parseLevel(logLevel string) (zerolog.Level, bool) {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		return zerolog.DebugLevel, true
	case "INFO":
		return zerolog.InfoLevel, true
	case "WARN":
		return zerolog.WarnLevel, true
	case "ERROR":
		return zerolog.ErrorLevel, true
	case "FATAL":
		return zerolog.FatalLevel, true
	case "PANIC":
		return zerolog.PanicLevel, true
	case "DISABLED":
		return zerolog.Disabled, true
	default:
		return zerolog.NoLevel, false
	}
}
