package token_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-webflow-bridge/token"
	"github.com/stretchr/testify/require"
)

func TestIdentityTransformIsTheIdentityFunction(t *testing.T) {
	transform := token.Identity{}
	ctx := context.Background()

	for _, value := range []string{"", "00Dxx!AQEAQ", `{"odd":"input"}`} {
		clientForm, err := transform.ToClientForm(ctx, value, "user-1")
		require.NoError(t, err)
		require.Equal(t, value, clientForm)

		providerForm, err := transform.ToProviderForm(ctx, value)
		require.NoError(t, err)
		require.Equal(t, value, providerForm)
	}
}
