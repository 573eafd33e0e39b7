package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	OAuthConfig
	ResourceConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Resource
}

func New() Config {
	// Load .env if present; deployments commonly ship credentials this way.
	_ = godotenv.Load()
	return mainConfig{}
}
