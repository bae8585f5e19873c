package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the optional JSON config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey           string   `json:"token_sign_key"`
		TokenIssuer            string   `json:"token_issuer"`
		TokenDuration          Duration `json:"token_duration"`
		PasswordHashCost       int      `json:"password_hash_cost"`
		DefaultAccountPassword string   `json:"default_account_password"`
		ContactVisibility      string   `json:"contact_visibility"`
		LogLevel               string   `json:"log_level"`
		Version                string   `json:"version"`

		BootstrapAdmin struct {
			Username  string `json:"username"`
			Password  string `json:"password"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"bootstrap_admin,omitempty"`
	} `json:"app,omitempty"`

	Storage struct {
		Backend string `json:"backend"`

		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			DataFile string `json:"data_file"`
			SeedFile string `json:"seed_file"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		CookieSecure    bool     `json:"cookie_secure"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		TokenFile      string   `json:"token_file"`
	} `json:"adapter,omitempty"`

	Workers struct {
		BackupDir      string   `json:"backup_dir"`
		BackupInterval Duration `json:"backup_interval"`
		BackupRetain   int      `json:"backup_retain"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:           jsonCfg.App.TokenSignKey,
			TokenIssuer:            jsonCfg.App.TokenIssuer,
			TokenDuration:          time.Duration(jsonCfg.App.TokenDuration),
			PasswordHashCost:       jsonCfg.App.PasswordHashCost,
			DefaultAccountPassword: jsonCfg.App.DefaultAccountPassword,
			ContactVisibility:      jsonCfg.App.ContactVisibility,
			BootstrapAdmin: BootstrapAdmin{
				Username:  jsonCfg.App.BootstrapAdmin.Username,
				Password:  jsonCfg.App.BootstrapAdmin.Password,
				FirstName: jsonCfg.App.BootstrapAdmin.FirstName,
				LastName:  jsonCfg.App.BootstrapAdmin.LastName,
			},
			LogLevel: jsonCfg.App.LogLevel,
			Version:  jsonCfg.App.Version,
		},
		Storage: Storage{
			Backend: jsonCfg.Storage.Backend,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				DataFile: jsonCfg.Storage.Files.DataFile,
				SeedFile: jsonCfg.Storage.Files.SeedFile,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			CookieSecure:    jsonCfg.Server.CookieSecure,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			TokenFile:      jsonCfg.Adapter.TokenFile,
		},
		Workers: Workers{
			BackupDir:      jsonCfg.Workers.BackupDir,
			BackupInterval: time.Duration(jsonCfg.Workers.BackupInterval),
			BackupRetain:   jsonCfg.Workers.BackupRetain,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
