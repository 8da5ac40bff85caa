package oauth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Grant is a successful response from the provider's token endpoint.
// Refresh grants never carry a new refresh token, so callers holding one must
// retain the original.
type Grant struct {
	// AccessToken is the bearer token for API calls against InstanceURL.
	AccessToken string `json:"access_token"`

	// RefreshToken is only present on authorization_code grants that
	// requested the refresh_token (or offline) scope.
	RefreshToken string `json:"refresh_token,omitempty"`

	// InstanceURL is the org instance API calls must be sent to.
	// Example: "https://mycompany.my.salesforce.com"
	InstanceURL string `json:"instance_url"`

	// ID is the identity URL for the grant's user.
	// Example: "https://login.salesforce.com/id/00Dxx0000001gPL/005xx000001Sv1m"
	ID string `json:"id"`

	TokenType string `json:"token_type"`
	Scope     string `json:"scope"`
	IssuedAt  string `json:"issued_at"`

	// IDToken is only present when the openid scope was requested.
	IDToken string `json:"id_token,omitempty"`
}

// UserID returns a stable identifier for the user behind the grant. When an
// ID token is present its subject claim is used (decoded without signature
// verification, which is fine for a local cache key), otherwise the identity
// URL stands in. Used to key the per-user surrogate index.
func (g *Grant) UserID() string {
	if g.IDToken != "" {
		var claims jwt.RegisteredClaims
		if _, _, err := jwt.NewParser().ParseUnverified(g.IDToken, &claims); err == nil && claims.Subject != "" {
			return claims.Subject
		}
	}
	return g.ID
}
