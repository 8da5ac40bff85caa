package errors_test

import (
	"testing"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapfKeepsTheSentinelInTheChain(t *testing.T) {
	err := errs.Wrapf(errs.ErrValidation, "bad app value")
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Equal(t, "bad app value: invalid state value", err.Error())
}

func TestWrapfNil(t *testing.T) {
	require.NoError(t, errs.Wrapf(nil, "nothing happened"))
}

func TestReduce(t *testing.T) {
	require.Equal(t, "(null)", errs.Reduce(nil))

	require.Equal(t, "expired authorization code",
		errs.Reduce(&errs.ProviderError{Code: "invalid_grant", Description: "expired authorization code"}))

	require.Equal(t, "invalid_grant",
		errs.Reduce(&errs.ProviderError{Code: "invalid_grant"}))

	require.Equal(t, "identity provider returned an error",
		errs.Reduce(&errs.ProviderError{}))

	wrapped := errs.Wrapf(&errs.ProviderError{Description: "expired"}, "exchanging code")
	require.Equal(t, "expired", errs.Reduce(wrapped), "provider errors reduce to their description even when wrapped")
}
