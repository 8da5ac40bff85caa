// Package token defines the transform capability that converts between the
// real provider token and the form handed to clients. Exactly two variants
// exist; the choice is made once at startup by configuration.
package token

import "context"

// Transform converts tokens between their provider form and their
// client-facing form.
type Transform interface {
	// ToClientForm converts a freshly granted provider token into the form
	// delivered to the client. userID keys any per-user bookkeeping.
	ToClientForm(ctx context.Context, token, userID string) (string, error)

	// ToProviderForm converts a client-held token back into the real
	// provider token.
	ToProviderForm(ctx context.Context, clientToken string) (string, error)
}

// Identity is a transform that does not change its input. The client receives
// the unaltered provider token.
type Identity struct{}

var _ Transform = Identity{}

func (Identity) ToClientForm(_ context.Context, token, _ string) (string, error) {
	return token, nil
}

func (Identity) ToProviderForm(_ context.Context, clientToken string) (string, error) {
	return clientToken, nil
}
