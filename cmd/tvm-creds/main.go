// tvm-creds fetches short-lived storage credentials from the token vending
// service for the endpoint named on the command line, consulting the shared
// credential cache first. The raw credential payload is written to stdout as
// JSON.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/cloudvend/tvm-client/internal/cache"
	"github.com/cloudvend/tvm-client/internal/config"
	"github.com/cloudvend/tvm-client/internal/observe"
	"github.com/cloudvend/tvm-client/internal/tvm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configureLogging()

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("credential request failed")
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <endpoint> (one of %v)", os.Args[0], tvm.Endpoints())
	}

	endpoint, err := tvm.ParseEndpoint(os.Args[1])
	if err != nil {
		return err
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("configuration load failed: %w", err)
	}

	shutdownTelemetry, err := observe.Configure(ctx, cfg.Observe)
	if err != nil {
		return fmt.Errorf("telemetry bootstrap failed: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(ctx); err != nil {
			log.Warn().Err(err).Msg("telemetry: shutdown failed")
		}
	}()

	identity, err := tvm.NewIdentity(cfg.Identity.Namespace, cfg.Identity.Auth)
	if err != nil {
		return fmt.Errorf("identity configuration failed: %w", err)
	}

	credentialCache, err := cache.NewFromConfig(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache configuration failed: %w", err)
	}
	defer credentialCache.Close()

	client := &http.Client{
		Transport: observe.HTTPTransport(http.DefaultTransport, cfg.Observe),
	}

	fetcher, err := tvm.NewFetcher(cfg.TVM.APIURL, client)
	if err != nil {
		return fmt.Errorf("fetcher configuration failed: %w", err)
	}

	provider, err := tvm.NewProvider(identity, fetcher, credentialCache)
	if err != nil {
		return fmt.Errorf("provider configuration failed: %w", err)
	}

	creds, err := provider.Credentials(ctx, endpoint)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", creds.Raw())
	return nil
}

func configureLogging() {
	// default level is Info
	log.Logger = log.Level(zerolog.InfoLevel)

	if os.Getenv("ENV") == "development" {
		log.Logger = log.
			Output(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel)
	}

	zerolog.DefaultContextLogger = &log.Logger
}
