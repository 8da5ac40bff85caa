package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-webflow-bridge/internal/config"
	"github.com/jrsteele09/go-webflow-bridge/oauth"
	"github.com/jrsteele09/go-webflow-bridge/pushback"
	"github.com/jrsteele09/go-webflow-bridge/server"
	"github.com/jrsteele09/go-webflow-bridge/token"
	"github.com/jrsteele09/go-webflow-bridge/token/surrogate"
	"github.com/redis/go-redis/v9"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	if c.GetOAuthKey() == "" || c.GetOAuthSecret() == "" || c.GetOAuthCallback() == "" {
		return errors.New("please provide the OAUTH_KEY, OAUTH_SECRET and OAUTH_CALLBACK environment variables")
	}

	transform, err := newTokenTransform(c)
	if err != nil {
		return fmt.Errorf("token transform: %w", err)
	}

	oauthClient := oauth.NewClient(oauth.ClientConfig{
		ClientID:     c.GetOAuthKey(),
		ClientSecret: c.GetOAuthSecret(),
		RedirectURI:  c.GetOAuthCallback(),
	})

	srv := &http.Server{Addr: c.GetPort(), Handler: server.New(c, oauthClient, pushback.New(), transform)}
	go listenAndServe(srv)
	waitForStopSignal()
	returnError = shutdown(srv)
	return returnError
}

func newTokenTransform(c config.Config) (token.Transform, error) {
	if c.GetTokenTransform() != config.TokenTransformSurrogate {
		return token.Identity{}, nil
	}

	opts, err := redis.ParseURL(c.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	log.Printf("Connected to redis at %s\n", opts.Addr)

	store := surrogate.NewStore(client, c.GetSurrogateLifespan(), c.GetMaxKeysPerUser())
	return surrogate.New(store, surrogate.WithInvalidateOnRead(c.GetInvalidateOnRead())), nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
