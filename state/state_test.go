package state_test

import (
	"testing"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/jrsteele09/go-webflow-bridge/state"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsValidStates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want state.Value
	}{
		{
			name: "primary without app",
			raw:  `{"type":"primary"}`,
			want: state.Value{Type: state.OrgPrimary},
		},
		{
			name: "sandbox with app",
			raw:  `{"type":"sandbox","app":"abc_123"}`,
			want: state.Value{Type: state.OrgSandbox, App: "abc_123"},
		},
		{
			name: "empty app",
			raw:  `{"type":"primary","app":""}`,
			want: state.Value{Type: state.OrgPrimary},
		},
		{
			name: "unknown keys are dropped",
			raw:  `{"type":"primary","nonce":"abc","depth":3,"redirect":"https://evil.example"}`,
			want: state.Value{Type: state.OrgPrimary},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := state.Parse(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseRejectsInvalidStates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing type", raw: `{"app":"abc"}`},
		{name: "type outside enum", raw: `{"type":"staging"}`},
		{name: "type not a string", raw: `{"type":1}`},
		{name: "app with non-word character", raw: `{"type":"primary","app":"a-b"}`},
		{name: "app not a string", raw: `{"type":"primary","app":["x"]}`},
		{name: "root not an object", raw: `"primary"`},
		{name: "not JSON at all", raw: `type=primary`},
		{name: "empty input", raw: ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := state.Parse(tc.raw)
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}
