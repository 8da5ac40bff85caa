// Package server wires the three handshake routes (start, callback, refresh)
// over the OAuth client, state parser, token transform and push-back client.
// Handlers are stateless: flow state lives only in the state parameter carried
// by the browser and in the surrogate store.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-webflow-bridge/internal/config"
	"github.com/jrsteele09/go-webflow-bridge/oauth"
	"github.com/jrsteele09/go-webflow-bridge/pushback"
	"github.com/jrsteele09/go-webflow-bridge/state"
	"github.com/jrsteele09/go-webflow-bridge/token"
)

// TokenClient is the provider-facing client the handlers depend on.
type TokenClient interface {
	BuildAuthorizeURL(t state.OrgType, scope, stateArg string) string
	ExchangeCode(ctx context.Context, t state.OrgType, code string) (*oauth.Grant, error)
	ExchangeRefreshToken(ctx context.Context, t state.OrgType, refreshToken string) (*oauth.Grant, error)
}

// TokenPusher delivers tokens back to the originating org.
type TokenPusher interface {
	Push(ctx context.Context, d pushback.Delivery) error
}

type Server struct {
	env       string // Environment (e.g., "DEV", "production")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	oauth     TokenClient
	pusher    TokenPusher
	transform token.Transform
}

func New(cfg config.Config, oauthClient TokenClient, pusher TokenPusher, transform token.Transform) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		oauth:     oauthClient,
		pusher:    pusher,
		transform: transform,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
