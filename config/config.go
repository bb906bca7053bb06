// Package config loads server settings from an optional YAML file and HR_*
// environment variables. Settings are read once at startup and not mutated
// afterwards.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "HR_"

// Config holds server settings
type Config struct {
	Addr string `yaml:"addr" json:"addr"`

	SigningKey          string            `yaml:"signing_key" json:"signing_key"`
	SigningKeyID        string            `yaml:"signing_key_id" json:"signing_key_id"`
	PreviousSigningKeys map[string]string `yaml:"previous_signing_keys" json:"previous_signing_keys"`
	SigningMethod       string            `yaml:"signing_method" json:"signing_method"`
	TokenExpiration     time.Duration     `yaml:"token_expiration" json:"token_expiration"`
	Issuer              string            `yaml:"issuer" json:"issuer"`
	BcryptCost          int               `yaml:"bcrypt_cost" json:"bcrypt_cost"`

	AdminUsername    string `yaml:"admin_username" json:"admin_username"`
	AdminPassword    string `yaml:"admin_password" json:"admin_password"`
	AdminDisplayName string `yaml:"admin_display_name" json:"admin_display_name"`
	AdminEmail       string `yaml:"admin_email" json:"admin_email"`

	CORSOrigins  []string `yaml:"cors_origins" json:"cors_origins"`
	CookieSecure bool     `yaml:"cookie_secure" json:"cookie_secure"`

	FixturesPath string `yaml:"fixtures_path" json:"fixtures_path"`
	DatabaseDSN  string `yaml:"database_dsn" json:"database_dsn"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// set when no signing key was configured and one was generated
	generatedKey bool
}

// Defaults returns the built-in settings
func Defaults() *Config {
	return &Config{
		Addr:             ":8000",
		SigningKeyID:     "default",
		SigningMethod:    "HS256",
		TokenExpiration:  30 * time.Minute,
		Issuer:           "hr-auth",
		AdminUsername:    "admin",
		AdminPassword:    "adminpassword",
		AdminDisplayName: "HR Admin",
		AdminEmail:       "admin@example.com",
		CORSOrigins:      []string{"*"},
		FixturesPath:     "sample_employees.json",
		DatabaseDSN:      "file::memory:",
		LogLevel:         "info",
	}
}

// Load applies, in order, defaults, the YAML file at path (if path is not
// empty) and environment overrides read through getenv. A nil getenv uses
// os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Defaults()

	if path == "" {
		path = getenv(EnvPrefix + "CONFIG")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if cfg.SigningKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, err
		}
		cfg.SigningKey = key
		cfg.generatedKey = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"ADDR":               &c.Addr,
		"SIGNING_KEY":        &c.SigningKey,
		"SIGNING_KEY_ID":     &c.SigningKeyID,
		"SIGNING_METHOD":     &c.SigningMethod,
		"ISSUER":             &c.Issuer,
		"ADMIN_USERNAME":     &c.AdminUsername,
		"ADMIN_PASSWORD":     &c.AdminPassword,
		"ADMIN_DISPLAY_NAME": &c.AdminDisplayName,
		"ADMIN_EMAIL":        &c.AdminEmail,
		"FIXTURES_PATH":      &c.FixturesPath,
		"DATABASE_DSN":       &c.DatabaseDSN,
		"LOG_LEVEL":          &c.LogLevel,
	}
	for name, dst := range strs {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}

	var errs []error

	if v := getenv(EnvPrefix + "TOKEN_EXPIRATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTOKEN_EXPIRATION: %w", EnvPrefix, err))
		}
		c.TokenExpiration = d
	}

	if v := getenv(EnvPrefix + "BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sBCRYPT_COST: %w", EnvPrefix, err))
		}
		c.BcryptCost = n
	}

	if v := getenv(EnvPrefix + "COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCOOKIE_SECURE: %w", EnvPrefix, err))
		}
		c.CookieSecure = b
	}

	if v := getenv(EnvPrefix + "CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	return errors.Join(errs...)
}

// Validate checks settings that would otherwise fail at runtime
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.SigningKey, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.SigningMethod, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&c.TokenExpiration, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.BcryptCost, validation.Min(0), validation.Max(31)),
		validation.Field(&c.AdminUsername, validation.Required, validation.Length(2, 64)),
		validation.Field(&c.AdminPassword, validation.Required, validation.Length(1, 72)),
		validation.Field(&c.AdminEmail, is.Email),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// GeneratedSigningKey reports whether the signing key was generated at load
// time. Tokens signed with it do not survive a restart.
func (c *Config) GeneratedSigningKey() bool {
	return c.generatedKey
}

func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

func (c *Config) GetSigningKeyID() string {
	return c.SigningKeyID
}

func (c *Config) GetPreviousSigningKeys() map[string]string {
	return c.PreviousSigningKeys
}

func (c *Config) GetSigningMethod() string {
	return c.SigningMethod
}

func (c *Config) GetTokenExpiration() time.Duration {
	return c.TokenExpiration
}

func (c *Config) GetIssuer() string {
	return c.Issuer
}

// String renders the config as JSON with secrets redacted
func (c *Config) String() string {
	out := *c
	out.SigningKey = redact(c.SigningKey)
	out.AdminPassword = redact(c.AdminPassword)
	if len(c.PreviousSigningKeys) > 0 {
		out.PreviousSigningKeys = make(map[string]string, len(c.PreviousSigningKeys))
		for kid, key := range c.PreviousSigningKeys {
			out.PreviousSigningKeys[kid] = redact(key)
		}
	}
	return print.MaybePrettyJSON(out)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func randomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate signing key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
