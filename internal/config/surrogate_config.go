package config

import "time"

// TokenTransformIdentity and TokenTransformSurrogate are the two supported
// token transform selections. The choice is made once at startup.
const (
	TokenTransformIdentity  = "identity"
	TokenTransformSurrogate = "surrogate"
)

type SurrogateConfig interface {
	GetTokenTransform() string
	GetSurrogateLifespan() time.Duration
	GetMaxKeysPerUser() int
	GetInvalidateOnRead() bool
}

type Surrogate struct{}

var _ SurrogateConfig = Surrogate{}

func (Surrogate) GetTokenTransform() string {
	return GetEnv("TOKEN_TRANSFORM", TokenTransformIdentity)
}

// GetSurrogateLifespan is short enough for demo use. A live system will want
// it aligned with the org's session timeout.
func (Surrogate) GetSurrogateLifespan() time.Duration {
	return 5 * time.Minute
}

// GetMaxKeysPerUser bounds how many live surrogate tokens a single user can
// accumulate before the oldest is evicted.
func (Surrogate) GetMaxKeysPerUser() int {
	return 4
}

func (Surrogate) GetInvalidateOnRead() bool {
	return GetEnv("SURROGATE_INVALIDATE_ON_READ", "false") == "true"
}
