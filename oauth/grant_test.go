package oauth_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-webflow-bridge/oauth"
	"github.com/stretchr/testify/require"
)

const identityURL = "https://login.salesforce.com/id/00Dxx0000001gPL/005xx000001Sv1m"

func TestUserIDFromIdentityURL(t *testing.T) {
	grant := &oauth.Grant{ID: identityURL}
	require.Equal(t, identityURL, grant.UserID())
}

func TestUserIDFromIDTokenSubject(t *testing.T) {
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: identityURL,
		Issuer:  "https://login.salesforce.com",
	}).SignedString([]byte("unit-test-key"))
	require.NoError(t, err)

	grant := &oauth.Grant{ID: "https://login.salesforce.com/id/other", IDToken: idToken}
	require.Equal(t, identityURL, grant.UserID())
}

func TestUserIDFallsBackOnMalformedIDToken(t *testing.T) {
	grant := &oauth.Grant{ID: identityURL, IDToken: "not.a.jwt"}
	require.Equal(t, identityURL, grant.UserID())
}
