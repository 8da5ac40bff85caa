package config

// OAuthConfig carries the connected-app credentials used for the web server
// flow. The env var names match the substitutions expected by the deployment
// scripts (OAUTH_KEY is the consumer key, OAUTH_SECRET the consumer secret).
type OAuthConfig interface {
	GetOAuthKey() string
	GetOAuthSecret() string
	GetOAuthCallback() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetOAuthKey() string {
	return GetEnv("OAUTH_KEY", "")
}

func (OAuth) GetOAuthSecret() string {
	return GetEnv("OAUTH_SECRET", "")
}

func (OAuth) GetOAuthCallback() string {
	return GetEnv("OAUTH_CALLBACK", "")
}
