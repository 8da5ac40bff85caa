package config

type RedisConfig interface {
	GetRedisURL() string
}

type Redis struct{}

var _ RedisConfig = Redis{}

func (Redis) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379")
}
