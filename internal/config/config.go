package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	SecurityConfig
	FakeAPIConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetAPIBaseURL() string
	GetDataFolder() string
	GetLogLevel() string
}

type SecurityConfig interface {
	GetTokenCookieName() string
	GetTokenCookieMaxAge() time.Duration
	GetDeviceCookieName() string
	GetViewTTL() time.Duration
}

type FakeAPIConfig interface {
	GetFakeAPIPort() string
	GetFakeAPISigningKey() string
	GetFakeAPITokenTTL() time.Duration
}

type mainConfig struct {
	EnvVars
	Security
	FakeAPI
}

func New() Config {
	return mainConfig{}
}

// Load seeds the process environment from the given .env files (".env" when
// none are named) and returns the environment-backed config. A missing file
// is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !isNotExist(err) {
			return nil, err
		}
	}
	return New(), nil
}
