package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-family-tree/internal/adapter"
	"github.com/MKhiriev/go-family-tree/internal/client"
	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewConsoleLogger(os.Stderr, "familyctl")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if err = logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	var app client.Client = client.NewApp(
		cfg,
		adapter.NewHTTPServerAdapter,
		adapter.NewFileTokenStore(cfg.Adapter.TokenFile),
		models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
		log,
	)

	if err = app.Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "familyctl:", err)
		os.Exit(1)
	}
}
