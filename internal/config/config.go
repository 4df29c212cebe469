// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// JWT holds the session token parameters.
type JWT struct {
	Secret        string `json:"secret" env:"SECRET"`
	Issuer        string `json:"issuer" env:"ISSUER"`
	Audience      string `json:"audience" env:"AUDIENCE"`
	ExpireMinutes int    `json:"expire_minutes" env:"EXPIRE_MINUTES"`
}

// TTL returns the session lifetime.
func (j JWT) TTL() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address" env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// TLSCertFile and TLSKeyFile switch the server to HTTPS when both are set.
	TLSCertFile string `json:"tls_cert_file" env:"TLS_CERT_FILE"`
	TLSKeyFile  string `json:"tls_key_file" env:"TLS_KEY_FILE"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `json:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`

	// Seed fills an empty database with sample data on startup.
	Seed bool `json:"seed" env:"SEED"`

	// PasswordMinLength is the minimal accepted operator password length.
	PasswordMinLength int `json:"password_min_length" env:"PASSWORD_MIN_LENGTH"`

	JWT JWT `json:"jwt" envPrefix:"JWT_"`

	// Config is the path to the Config file.
	Config string `json:"-" env:"CONFIG"`
}

func defaults() *Options {
	return &Options{
		Address:           "localhost:8080",
		LogLevel:          "info",
		CORSOrigins:       []string{"http://localhost:5173"},
		PasswordMinLength: 8,
		JWT: JWT{
			Issuer:        "usernotepad",
			Audience:      "usernotepad-ui",
			ExpireMinutes: 60,
		},
		Config: "config.json",
	}
}

// Parse reads the process flags and environment.
func Parse() (*Options, error) {
	return Load(os.Args[1:], nil)
}

// Load builds Options from args, the JSON config file and the environment.
// Later sources override earlier ones: flags, then the config file, then
// environment variables. A nil environ means the process environment.
func Load(args []string, environ map[string]string) (*Options, error) {
	options := defaults()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Address, "a", options.Address, "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", options.DatabaseDSN, "db address")
	fs.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	fs.StringVar(&options.Config, "config", options.Config, "path to config file")
	fs.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	envOpts := env.Options{Environment: environ}

	// CONFIG may relocate the file before it is read.
	var path struct {
		Config string `env:"CONFIG"`
	}
	if err := env.ParseWithOptions(&path, envOpts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if path.Config != "" {
		options.Config = path.Config
	}

	if err := readFile(options.Config, options); err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(options, envOpts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// readFile merges the JSON file at path into options. A missing file is ignored.
func readFile(path string, options *Options) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func (o *Options) validate() error {
	var errs []error
	if strings.TrimSpace(o.JWT.Secret) == "" {
		errs = append(errs, errors.New("jwt secret is required (JWT_SECRET)"))
	}
	if o.JWT.ExpireMinutes <= 0 {
		errs = append(errs, errors.New("jwt expire minutes must be positive"))
	}
	if o.PasswordMinLength < 1 {
		errs = append(errs, errors.New("password min length must be at least 1"))
	}
	if (o.TLSCertFile == "") != (o.TLSKeyFile == "") {
		errs = append(errs, errors.New("tls cert and key files must be set together"))
	}
	return errors.Join(errs...)
}

// TLSEnabled reports whether the server should serve HTTPS.
func (o *Options) TLSEnabled() bool {
	return o.TLSCertFile != "" && o.TLSKeyFile != ""
}
