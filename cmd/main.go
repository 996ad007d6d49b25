package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/services"
	"github.com/desertthunder/champr/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	if p := os.Getenv("CHAMPR_CONFIG"); p != "" {
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	lcuClient := services.NewLCUHTTPClient(config.Client.Timeout())
	cdn := services.NewCDNService(services.CDNOptions{
		UnpkgURL:       config.CDN.UnpkgURL,
		NPMRegistryURL: config.CDN.NPMRegistryURL,
		DDragonURL:     config.CDN.DDragonURL,
		PackageScope:   config.CDN.PackageScope,
		SourceList:     config.CDN.SourceList,
		Timeout:        config.CDN.Timeout(),
		Logger:         shared.WithLogger(logger, "component", "cdn"),
	})

	client := services.NewLCUService(lcuClient, shared.WithLogger(logger, "component", "lcu")).
		WithWebClient(&http.Client{Timeout: config.CDN.Timeout()})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Client:     client,
		Builds:     cdn,
		API:        services.NewAPIService(lcuClient),
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "champr",
		Usage:    "Fetch community rune and item builds and apply them to the game client",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
