// Package oauth implements the client half of the web server flow: building
// the authorize URL and exchanging codes or refresh tokens for grants against
// the provider's token endpoint.
package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/jrsteele09/go-webflow-bridge/state"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	authorizePath = "/services/oauth2/authorize"
	tokenPath     = "/services/oauth2/token"
)

// defaultBaseURLs maps the state org type onto the provider login host.
var defaultBaseURLs = map[state.OrgType]string{
	state.OrgPrimary: "https://login.salesforce.com",
	state.OrgSandbox: "https://test.salesforce.com",
}

// ClientConfig holds the connected-app credentials shared by every token
// request.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client talks to the provider's OAuth endpoints. It is stateless and safe
// for concurrent use.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	baseURLs   map[state.OrgType]string
}

type Option func(*Client)

// WithHTTPClient overrides the transport used for token requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the provider base URL for one org type. Used in tests
// to point the client at a local server.
func WithBaseURL(t state.OrgType, baseURL string) Option {
	return func(c *Client) { c.baseURLs[t] = baseURL }
}

func NewClient(cfg ClientConfig, opts ...Option) *Client {
	c := &Client{
		config:     cfg,
		httpClient: http.DefaultClient,
		baseURLs:   map[state.OrgType]string{},
	}
	for t, u := range defaultBaseURLs {
		c.baseURLs[t] = u
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildAuthorizeURL returns the provider authorize URL the browser should be
// redirected to. The state argument is carried through the redirect verbatim.
func (c *Client) BuildAuthorizeURL(t state.OrgType, scope, stateArg string) string {
	return c.oauth2Config(t, scope).AuthCodeURL(stateArg)
}

// ExchangeCode applies for a grant using the authorization code passed back
// by the flow.
func (c *Client) ExchangeCode(ctx context.Context, t state.OrgType, code string) (*Grant, error) {
	return c.requestGrant(ctx, t, url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	})
}

// ExchangeRefreshToken applies for a grant using the user's refresh token.
func (c *Client) ExchangeRefreshToken(ctx context.Context, t state.OrgType, refreshToken string) (*Grant, error) {
	return c.requestGrant(ctx, t, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
}

func (c *Client) requestGrant(ctx context.Context, t state.OrgType, parameters url.Values) (*Grant, error) {
	body := url.Values{
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"redirect_uri":  {c.config.RedirectURI},
	}
	for key, values := range parameters {
		body[key] = values
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURLs[t]+tokenPath, strings.NewReader(body.Encode()))
	if err != nil {
		return nil, errs.Wrapf(err, "building token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrTransport, "token request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrTransport, "reading token response: %v", err)
	}

	var payload struct {
		Grant
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errs.Wrapf(errs.ErrParse, "token response")
	}

	if payload.AccessToken == "" {
		return nil, &errs.ProviderError{Code: payload.Error, Description: payload.ErrorDescription}
	}

	log.Info().Str("id", payload.ID).Msg("received grant")
	return &payload.Grant, nil
}

func (c *Client) oauth2Config(t state.OrgType, scope string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		RedirectURL:  c.config.RedirectURI,
		Scopes:       strings.Fields(scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.baseURLs[t] + authorizePath,
			TokenURL:  c.baseURLs[t] + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
