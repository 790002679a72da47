// Package config loads the binaries' settings from a TOML file with
// FORMFLOW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formflow/internal/logging"
)

// Backend names the store product submissions go to.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSupabase Backend = "supabase"
	BackendPostgres Backend = "postgres"
)

// Config is the full settings tree.
type Config struct {
	Server   Server   `toml:"server"`
	Supabase Supabase `toml:"supabase"`
	Database Database `toml:"database"`
	Log      Log      `toml:"log"`
	I18n     I18n     `toml:"i18n"`
	Forms    Forms    `toml:"forms"`
}

type Server struct {
	Addr          string        `toml:"addr"`
	ShutdownGrace time.Duration `toml:"shutdown_grace"`
	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
	Metrics   bool    `toml:"metrics"`
}

type Supabase struct {
	URL               string        `toml:"url"`
	APIKey            string        `toml:"api_key"`
	Table             string        `toml:"table"`
	Timeout           time.Duration `toml:"timeout"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
	Burst             int           `toml:"burst"`
}

type Database struct {
	DSN     string `toml:"dsn"`
	Migrate bool   `toml:"migrate"`
}

type Log struct {
	Level  string         `toml:"level"`
	Format logging.Format `toml:"format"`
}

type I18n struct {
	Locale string `toml:"locale"`
	// Dir holds extra *.toml catalogs overriding the embedded ones.
	Dir string `toml:"dir"`
}

type Forms struct {
	Backend Backend `toml:"backend"`
	// UISchemaDir replaces the embedded overlay documents when set.
	UISchemaDir string `toml:"ui_schema_dir"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Server: Server{
			Addr:          ":8383",
			ShutdownGrace: 5 * time.Second,
			RateLimit:     10,
			RateBurst:     20,
			Metrics:       true,
		},
		Supabase: Supabase{
			Table:             "products",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Log:   Log{Level: "info", Format: logging.FormatText},
		I18n:  I18n{Locale: "en"},
		Forms: Forms{Backend: BackendMemory},
	}
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads path (optional) over the defaults and applies environment
// overrides from the process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment.
func LoadWithEnv(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return Config{}, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	if lookup != nil {
		if err := applyEnv(&cfg, lookup); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	strs := map[string]*string{
		"FORMFLOW_ADDR":         &cfg.Server.Addr,
		"FORMFLOW_SUPABASE_URL": &cfg.Supabase.URL,
		"FORMFLOW_SUPABASE_KEY": &cfg.Supabase.APIKey,
		"FORMFLOW_DATABASE_DSN": &cfg.Database.DSN,
		"FORMFLOW_LOG_LEVEL":    &cfg.Log.Level,
		"FORMFLOW_LOCALE":       &cfg.I18n.Locale,
	}
	for key, target := range strs {
		if value, ok := lookup(key); ok {
			*target = strings.TrimSpace(value)
		}
	}
	if value, ok := lookup("FORMFLOW_LOG_FORMAT"); ok {
		cfg.Log.Format = logging.Format(strings.TrimSpace(value))
	}
	if value, ok := lookup("FORMFLOW_BACKEND"); ok {
		cfg.Forms.Backend = Backend(strings.TrimSpace(value))
	}
	if value, ok := lookup("FORMFLOW_RATE_LIMIT"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("config: FORMFLOW_RATE_LIMIT: %w", err)
		}
		cfg.Server.RateLimit = n
	}
	return nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	var errs []error
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: log.level: %w", err))
	}
	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON, "":
	default:
		errs = append(errs, fmt.Errorf("config: log.format %q is not text or json", c.Log.Format))
	}
	switch c.Forms.Backend {
	case BackendMemory:
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.APIKey == "" {
			errs = append(errs, errors.New("config: supabase backend needs supabase.url and supabase.api_key"))
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("config: postgres backend needs database.dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown forms.backend %q", c.Forms.Backend))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("config: server.rate_limit must not be negative"))
	}
	return errors.Join(errs...)
}
