package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/jrsteele09/go-webflow-bridge/oauth"
	"github.com/jrsteele09/go-webflow-bridge/pushback"
	"github.com/jrsteele09/go-webflow-bridge/state"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

// StartHandler redirects the popup to the provider's authorize URL for the
// org type named in the state parameter.
func (s *Server) StartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateArg := r.URL.Query().Get("state")
		scope := r.URL.Query().Get("scope")

		stateValue, err := state.Parse(stateArg)
		if err != nil {
			s.renderErrorPage(w, r, err)
			return
		}

		http.Redirect(w, r, s.oauth.BuildAuthorizeURL(stateValue.Type, scope, stateArg), http.StatusFound)
	}
}

// CallbackHandler receives the provider redirect carrying either an
// authorization code or an error, exchanges the code for a grant, pushes the
// tokens back to the org, and renders the page that notifies the opener.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		code := query.Get("code")
		errorParam := query.Get("error")
		errorDescription := query.Get("error_description")

		stateValue, err := state.Parse(query.Get("state"))
		if err != nil {
			s.renderErrorPage(w, r, err)
			return
		}

		log.Info().Str("app", stateValue.App).Str("type", string(stateValue.Type)).Msg("web flow callback")

		// The provider reported failure; don't contact the token endpoint.
		if errorParam != "" || errorDescription != "" {
			if errorDescription != "" {
				s.renderErrorPage(w, r, errors.New(errorDescription))
			} else {
				s.renderErrorPage(w, r, errors.New(errorParam))
			}
			return
		}

		grant, err := s.oauth.ExchangeCode(r.Context(), stateValue.Type, code)
		if err != nil {
			s.renderErrorPage(w, r, err)
			return
		}

		if err := s.deliverGrant(r, stateValue, grant, grant.RefreshToken); err != nil {
			s.renderErrorPage(w, r, err)
			return
		}

		log.Info().Msg("flow complete OK")
		s.renderSuccessPage(w)
	}
}

// RefreshHandler exchanges a stored refresh token for a fresh grant on behalf
// of a trusted internal caller. The provider does not reissue refresh tokens,
// so the original one is pushed back alongside the new access token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			State string `json:"state"`
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.respondError(w, errs.Wrapf(errs.ErrValidation, "refresh body"))
			return
		}

		stateValue, err := state.Parse(body.State)
		if err != nil {
			s.respondError(w, err)
			return
		}

		log.Info().Str("app", stateValue.App).Str("type", string(stateValue.Type)).Msg("refresh request")

		grant, err := s.oauth.ExchangeRefreshToken(r.Context(), stateValue.Type, body.Token)
		if err != nil {
			s.respondError(w, err)
			return
		}

		if err := s.deliverGrant(r, stateValue, grant, body.Token); err != nil {
			s.respondError(w, err)
			return
		}

		log.Info().Msg("flow complete OK")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	}
}

// deliverGrant converts the access token to its client form and pushes it to
// the org. The write itself is authenticated with the real access token; the
// pushed value is what the org's client-side code will eventually hold.
func (s *Server) deliverGrant(r *http.Request, stateValue state.Value, grant *oauth.Grant, refreshToken string) error {
	clientToken, err := s.transform.ToClientForm(r.Context(), grant.AccessToken, grant.UserID())
	if err != nil {
		return err
	}

	return s.pusher.Push(r.Context(), pushback.Delivery{
		InstanceURL:  grant.InstanceURL,
		App:          stateValue.App,
		BearerToken:  grant.AccessToken,
		Token:        clientToken,
		RefreshToken: refreshToken,
	})
}

// respondError is the generic responder for the machine-facing refresh route.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("refresh failed")

	status := http.StatusBadGateway
	if errs.Is(err, errs.ErrValidation) {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": errs.Reduce(err)})
}
