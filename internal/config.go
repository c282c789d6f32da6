package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tomhoover/paperless-ngx/internal/fileinfo"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App           ApplicationConfig    `yaml:"app"`
	Media         MediaConfig          `yaml:"media"`
	Consume       ConsumeConfig        `yaml:"consume"`
	SQLite        SQLiteConfig         `yaml:"sqlite"`
	Auth          AuthConfig           `yaml:"auth"`
	FilenameRules []FilenameRuleConfig `yaml:"filename_rules"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Media.Validate(); err != nil {
		return err
	}
	if err := c.Consume.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	for i := range c.FilenameRules {
		if err := c.FilenameRules[i].Validate(); err != nil {
			return fmt.Errorf("filename_rules[%d]: %w", i, err)
		}
	}
	return nil
}

// RewriteRules compiles the configured filename rules. Validate must have
// succeeded first; invalid patterns are skipped here.
func (c *Config) RewriteRules() []fileinfo.RewriteRule {
	rules := make([]fileinfo.RewriteRule, 0, len(c.FilenameRules))
	for _, r := range c.FilenameRules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			continue
		}
		rules = append(rules, fileinfo.RewriteRule{Pattern: re, Replacement: r.Replacement})
	}
	return rules
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// MediaConfig holds the path to the media directory where originals,
// archive versions, and thumbnails live.
type MediaConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the media configuration.
func (c *MediaConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ConsumeConfig holds the consumption directory settings. When Enabled is
// true a watcher ingests every file dropped into Path.
type ConsumeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the consume configuration.
func (c *ConsumeConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// FilenameRuleConfig is one filename rewrite rule applied before metadata
// extraction during consumption.
type FilenameRuleConfig struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Validate validates the rule, compiling the pattern to catch errors early.
func (c *FilenameRuleConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Pattern, validation.Required),
	); err != nil {
		return err
	}
	if _, err := regexp.Compile(c.Pattern); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Media: MediaConfig{
			Path: "./media",
		},
		Consume: ConsumeConfig{
			Enabled: true,
			Path:    "./consume",
		},
		SQLite: SQLiteConfig{
			Path: "./paperless.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
