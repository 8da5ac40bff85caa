package config

type Config interface {
	EnvConfig
	OAuthConfig
	RedisConfig
	SurrogateConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Redis
	Surrogate
}

func New() Config {
	return mainConfig{}
}
