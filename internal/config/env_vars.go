package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	folderEnvVar     = "DATA_FOLDER"
	apiBaseURLEnvVar = "API_BASE_URL"
	logLevelEnvVar   = "LOG_LEVEL"

	DefaultAPIBaseURL = "http://localhost:8000"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	return portAddr(GetEnv(portEnvVar, "8080"))
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Go Todo")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetAPIBaseURL returns the base URL of the remote task API, without a
// trailing slash.
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLEnvVar, DefaultAPIBaseURL), "/")
}

// GetDataFolder returns the folder the durable token store is persisted in.
// Empty means the store is kept in memory only.
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "")
}

func (EnvVars) GetLogLevel() string {
	return strings.ToLower(GetEnv(logLevelEnvVar, "info"))
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses envVar as a time.Duration, falling back to defaultValue
// when it is unset or malformed.
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

func portAddr(port string) string {
	if port == "" {
		return ""
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
