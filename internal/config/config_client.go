package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ClientAdapter holds network settings used by the familyctl transport layer.
type ClientAdapter struct {
	// HTTPAddress is the server base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// TokenFile stores the session token between invocations.
	TokenFile string
}

// ClientConfig is the familyctl configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter  ClientAdapter
	LogLevel string
}

// GetClientConfig builds and validates the familyctl config from the
// environment and the optional JSON file. Command-line flags are owned by
// the CLI itself and applied on top by the caller.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	tokenFile := cfg.Adapter.TokenFile
	if tokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			tokenFile = filepath.Join(dir, "familyctl", "token")
		}
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			TokenFile:      tokenFile,
		},
		LogLevel: cfg.App.LogLevel,
	}

	return clientCfg, clientCfg.validate()
}

// Validate re-checks the config after command-line overrides.
func (cfg *ClientConfig) Validate() error {
	return cfg.validate()
}
