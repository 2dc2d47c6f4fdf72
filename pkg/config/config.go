// Package config loads and validates the extraction configuration. All
// validation is eager: a bad config fails before any network call.
package config

import (
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/daktela-extract/pkg/errors"
)

// Config describes one extraction run.
type Config struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// URL or Server identifies the Daktela instance; exactly one of the
	// two forms is needed. URL must look like https://{server}.daktela.com.
	URL    string `mapstructure:"url"`
	Server string `mapstructure:"server"`
	// From/To are date expressions bounding the [from, to) window:
	// "today"/"0", a negative day count like "-7", or "YYYY-MM-DD".
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
	// Tables is a comma-separated, case-insensitive list. Unrecognized
	// names are extracted generically as custom entities.
	Tables      string `mapstructure:"tables"`
	Incremental bool   `mapstructure:"incremental"`
	Debug       bool   `mapstructure:"debug"`

	PageSize  int    `mapstructure:"page_size"`
	OutputDir string `mapstructure:"output_dir"`
	Gzip      bool   `mapstructure:"gzip"`
	// TableOverrides optionally points at a YAML file with custom table
	// definitions merged over the built-in catalog.
	TableOverrides     string `mapstructure:"table_overrides"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

var urlPattern = regexp.MustCompile(`^https?://([^.]+)\.daktela\.com/?$`)

// Load reads a config file (JSON or YAML) with DAKTELA_* environment
// overrides and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("daktela")
	v.AutomaticEnv()
	v.SetDefault("output_dir", "out/tables")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and formats. Date expressions are
// validated separately by the pipeline via daterange.Window.
func (c *Config) Validate() error {
	if c.Username == "" {
		return errors.New(errors.ErrorTypeValidation, "username is required")
	}
	if c.Password == "" {
		return errors.New(errors.ErrorTypeValidation, "password is required")
	}
	if c.URL == "" && c.Server == "" {
		return errors.New(errors.ErrorTypeValidation, "either 'url' or 'server' must be provided")
	}
	if c.URL != "" && !urlPattern.MatchString(c.URL) {
		return errors.Newf(errors.ErrorTypeValidation,
			"invalid url format %q: expected https://{server}.daktela.com", c.URL)
	}
	if c.From == "" || c.To == "" {
		return errors.New(errors.ErrorTypeValidation, "'from' and 'to' are required")
	}
	if len(c.TableList()) == 0 {
		return errors.New(errors.ErrorTypeValidation, "at least one table must be requested")
	}
	return nil
}

// BaseURL returns the API base URL for the instance.
func (c *Config) BaseURL() string {
	if c.URL != "" {
		return strings.TrimRight(c.URL, "/")
	}
	return "https://" + c.Server + ".daktela.com"
}

// ServerName returns the tenant identifier used to prefix output rows.
func (c *Config) ServerName() (string, error) {
	if c.Server != "" {
		return c.Server, nil
	}
	if m := urlPattern.FindStringSubmatch(c.URL); m != nil {
		return m[1], nil
	}
	return "", errors.New(errors.ErrorTypeValidation, "could not extract server name from url")
}

// TableList returns the requested table names, trimmed and lowercased.
func (c *Config) TableList() []string {
	parts := strings.Split(c.Tables, ",")
	tables := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToLower(strings.TrimSpace(p)); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}
