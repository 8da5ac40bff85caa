// Package pushback delivers freshly obtained tokens to the originating org's
// own token REST resource, so server-side code there can use them without the
// browser ever carrying them.
package pushback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/rs/zerolog/log"
)

// Delivery describes one token write to the org. BearerToken authenticates
// the call and is always the real access token; Token is the client-form
// value the org stores (identical to BearerToken unless a surrogate transform
// is active).
type Delivery struct {
	InstanceURL  string
	App          string
	BearerToken  string
	Token        string
	RefreshToken string
}

type Pusher struct {
	httpClient *http.Client
}

type Option func(*Pusher)

func WithHTTPClient(hc *http.Client) Option {
	return func(p *Pusher) { p.httpClient = hc }
}

func New(opts ...Option) *Pusher {
	p := &Pusher{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type pushResponse struct {
	OK        bool   `json:"ok"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// Push PUTs the token to the org's receiving endpoint, path namespaced by the
// optional app segment. An errorCode in the response is a hard failure. An
// ok:false response without one is logged and treated as success: older
// receiver versions answer that way on no-op writes.
func (p *Pusher) Push(ctx context.Context, d Delivery) error {
	endpoint := d.InstanceURL + "/services/apexrest/"
	if d.App != "" {
		endpoint += d.App + "/"
	}
	endpoint += "token"

	payload, err := json.Marshal(struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken,omitempty"`
	}{Token: d.Token, RefreshToken: d.RefreshToken})
	if err != nil {
		return errs.Wrapf(err, "encoding token payload")
	}

	log.Info().Str("endpoint", endpoint).Msg("putting token to org")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errs.Wrapf(err, "building token put request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.BearerToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errs.Wrapf(errs.ErrTransport, "token put request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrapf(errs.ErrTransport, "reading token put response: %v", err)
	}

	result, err := decodeResponse(data)
	if err != nil {
		return err
	}

	if result.ErrorCode != "" {
		if result.Message != "" {
			return errs.Wrapf(errs.ErrPushBack, "%s", result.Message)
		}
		return errs.Wrapf(errs.ErrPushBack, "%s", result.ErrorCode)
	}

	if result.OK {
		log.Info().Str("app", d.App).Msg("put token service returned OK")
	} else {
		log.Warn().Str("app", d.App).Msg("put token service returned unexpected response")
	}
	return nil
}

// decodeResponse normalizes the receiver's reply: REST resources answer with
// a bare object, but some error shapes arrive as an array whose first element
// carries the outcome.
func decodeResponse(data []byte) (pushResponse, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []pushResponse
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return pushResponse{}, errs.Wrapf(errs.ErrParse, "token put response")
		}
		if len(many) == 0 {
			return pushResponse{}, errs.Wrapf(errs.ErrParse, "empty token put response array")
		}
		return many[0], nil
	}

	var one pushResponse
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return pushResponse{}, errs.Wrapf(errs.ErrParse, "token put response")
	}
	return one, nil
}
