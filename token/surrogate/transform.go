package surrogate

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/jrsteele09/go-webflow-bridge/token"
)

// tokenBytes is the surrogate id size before base64 encoding. Base64 works on
// blocks of 3 bytes, so the encoded form is 4/3 this length.
const tokenBytes = 42

// randRead generates the surrogate id bytes. It can be overridden in tests.
var randRead = rand.Read

// Transform issues surrogate tokens backed by a Store. It satisfies the
// token.Transform capability.
type Transform struct {
	store *Store

	// invalidateOnRead makes surrogates single use. Left off by default:
	// a surrogate stays replayable until TTL or eviction, which tolerates
	// legitimate client retries.
	invalidateOnRead bool
}

var _ token.Transform = (*Transform)(nil)

type Option func(*Transform)

// WithInvalidateOnRead deletes a surrogate record on first lookup.
func WithInvalidateOnRead(on bool) Option {
	return func(t *Transform) { t.invalidateOnRead = on }
}

func New(store *Store, opts ...Option) *Transform {
	t := &Transform{store: store}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transform) ToClientForm(ctx context.Context, tok, userID string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := randRead(buf); err != nil {
		return "", errs.Wrapf(err, "generating surrogate token")
	}
	uid := base64.StdEncoding.EncodeToString(buf)

	if err := t.store.Insert(ctx, uid, tok); err != nil {
		return "", err
	}
	if err := t.store.Index(ctx, userID, uid); err != nil {
		return "", err
	}
	return uid, nil
}

func (t *Transform) ToProviderForm(ctx context.Context, clientToken string) (string, error) {
	if t.invalidateOnRead {
		return t.store.Take(ctx, clientToken)
	}
	return t.store.Lookup(ctx, clientToken)
}
