package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/jrsteele09/go-webflow-bridge/oauth"
	"github.com/jrsteele09/go-webflow-bridge/state"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "test-consumer-key"
	testClientSecret = "test-consumer-secret"
	testRedirectURI  = "https://bridge.example.com/callback"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *oauth.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return oauth.NewClient(oauth.ClientConfig{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  testRedirectURI,
	}, oauth.WithBaseURL(state.OrgSandbox, ts.URL))
}

func TestBuildAuthorizeURL(t *testing.T) {
	client := oauth.NewClient(oauth.ClientConfig{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  testRedirectURI,
	})

	raw := client.BuildAuthorizeURL(state.OrgSandbox, "api refresh_token", `{"type":"sandbox"}`)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	require.Equal(t, "test.salesforce.com", u.Host)
	require.Equal(t, "/services/oauth2/authorize", u.Path)

	q := u.Query()
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, testRedirectURI, q.Get("redirect_uri"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "api refresh_token", q.Get("scope"))
	require.Equal(t, `{"type":"sandbox"}`, q.Get("state"))
}

func TestBuildAuthorizeURLPrimaryHost(t *testing.T) {
	client := oauth.NewClient(oauth.ClientConfig{ClientID: testClientID})
	u, err := url.Parse(client.BuildAuthorizeURL(state.OrgPrimary, "api", `{"type":"primary"}`))
	require.NoError(t, err)
	require.Equal(t, "login.salesforce.com", u.Host)
}

func TestExchangeCodeSuccess(t *testing.T) {
	var gotForm url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "00Dxx!AQEAQ",
			"refresh_token": "5Aep8614iLM",
			"instance_url": "https://mycompany.my.salesforce.com",
			"id": "https://test.salesforce.com/id/00Dxx0000001gPL/005xx000001Sv1m",
			"token_type": "Bearer",
			"scope": "api refresh_token",
			"issued_at": "1699999999999"
		}`))
	})

	grant, err := client.ExchangeCode(context.Background(), state.OrgSandbox, "temp-code")
	require.NoError(t, err)

	require.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	require.Equal(t, "temp-code", gotForm.Get("code"))
	require.Equal(t, testClientID, gotForm.Get("client_id"))
	require.Equal(t, testClientSecret, gotForm.Get("client_secret"))
	require.Equal(t, testRedirectURI, gotForm.Get("redirect_uri"))

	require.Equal(t, "00Dxx!AQEAQ", grant.AccessToken)
	require.Equal(t, "5Aep8614iLM", grant.RefreshToken)
	require.Equal(t, "https://mycompany.my.salesforce.com", grant.InstanceURL)
	require.Equal(t, "Bearer", grant.TokenType)
}

func TestExchangeCodeProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"expired authorization code"}`))
	})

	_, err := client.ExchangeCode(context.Background(), state.OrgSandbox, "stale-code")
	require.Error(t, err)

	var pe *errs.ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "invalid_grant", pe.Code)
	require.Equal(t, "expired authorization code", pe.Description)
	require.Equal(t, "expired authorization code", err.Error())
}

func TestExchangeCodeNonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance window</html>"))
	})

	_, err := client.ExchangeCode(context.Background(), state.OrgSandbox, "code")
	require.ErrorIs(t, err, errs.ErrParse)
}

func TestExchangeCodeTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := ts.URL
	ts.Close()

	client := oauth.NewClient(oauth.ClientConfig{ClientID: testClientID},
		oauth.WithBaseURL(state.OrgSandbox, deadURL))

	_, err := client.ExchangeCode(context.Background(), state.OrgSandbox, "code")
	require.ErrorIs(t, err, errs.ErrTransport)
}

func TestExchangeRefreshToken(t *testing.T) {
	var gotForm url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "00Dxx!FRESH",
			"instance_url": "https://mycompany.my.salesforce.com",
			"id": "https://test.salesforce.com/id/00Dxx0000001gPL/005xx000001Sv1m",
			"token_type": "Bearer",
			"issued_at": "1700000000000"
		}`))
	})

	grant, err := client.ExchangeRefreshToken(context.Background(), state.OrgSandbox, "5Aep8614iLM")
	require.NoError(t, err)

	require.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	require.Equal(t, "5Aep8614iLM", gotForm.Get("refresh_token"))

	require.Equal(t, "00Dxx!FRESH", grant.AccessToken)
	// Providers do not reissue refresh tokens on refresh.
	require.Empty(t, grant.RefreshToken)
}
