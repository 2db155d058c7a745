// Package config loads the docmail configuration from defaults, an optional
// YAML file, DOCMAIL_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zostay/docmail/message/header"
)

// EnvPrefix is the prefix of configuration environment variables. The key
// fetch.timeout is read from DOCMAIL_FETCH_TIMEOUT.
const EnvPrefix = "DOCMAIL"

// Config is the effective configuration.
type Config struct {
	Subject string `mapstructure:"subject"`
	From    string `mapstructure:"from"`
	To      string `mapstructure:"to"`

	// Date fixes the Date header. Any common date format is accepted.
	Date string `mapstructure:"date"`

	Output string `mapstructure:"output"`

	Fetch   FetchConfig   `mapstructure:"fetch"`
	Log     LogConfig     `mapstructure:"log"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Store   StoreConfig   `mapstructure:"store"`
}

// FetchConfig controls remote image fetches.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
	Backoff time.Duration `mapstructure:"backoff"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ArchiveConfig controls the IMAP archive.
type ArchiveConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	Address            string        `mapstructure:"address"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	Mailbox            string        `mapstructure:"mailbox"`
	TLS                bool          `mapstructure:"tls"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects the event store.
type StoreConfig struct {
	Driver     string `mapstructure:"driver"`
	DSN        string `mapstructure:"dsn"`
	Collection string `mapstructure:"collection"`
}

var defaults = map[string]any{
	"subject":                      "Document Content",
	"from":                         "sender@example.com",
	"to":                           "recipient@example.com",
	"date":                         "",
	"output":                       "",
	"fetch.timeout":                30 * time.Second,
	"fetch.retries":                2,
	"fetch.backoff":                500 * time.Millisecond,
	"log.level":                    "info",
	"log.format":                   "text",
	"archive.enabled":              false,
	"archive.address":              "",
	"archive.username":             "",
	"archive.password":             "",
	"archive.mailbox":              "INBOX",
	"archive.tls":                  true,
	"archive.insecure_skip_verify": false,
	"archive.timeout":              30 * time.Second,
	"store.driver":                 "sqlite3",
	"store.dsn":                    "datalog.db",
	"store.collection":             "log",
}

// New returns a viper instance with the defaults and environment binding set
// up. Flags may be bound to it before Load is called.
func New() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the named YAML file, if any, and returns the configuration.
// Without a name, docmail.yaml is read from the working directory when it
// exists.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("docmail")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// ParsedDate returns the fixed Date, or the zero time when none is set.
func (c *Config) ParsedDate() (time.Time, error) {
	if c.Date == "" {
		return time.Time{}, nil
	}
	d, err := header.ParseTime(c.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", c.Date, err)
	}
	return d, nil
}

// LogLevel returns the slog level named by Log.Level. Unknown names mean
// info.
func (c *Config) LogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

const redacted = "********"

// YAML returns the configuration as YAML with secrets masked.
func (c *Config) YAML() ([]byte, error) {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}

	view := map[string]any{
		"subject": c.Subject,
		"from":    c.From,
		"to":      c.To,
		"date":    c.Date,
		"output":  c.Output,
		"fetch": map[string]any{
			"timeout": c.Fetch.Timeout.String(),
			"retries": c.Fetch.Retries,
			"backoff": c.Fetch.Backoff.String(),
		},
		"log": map[string]any{
			"level":  c.Log.Level,
			"format": c.Log.Format,
		},
		"archive": map[string]any{
			"enabled":              c.Archive.Enabled,
			"address":              c.Archive.Address,
			"username":             c.Archive.Username,
			"password":             mask(c.Archive.Password),
			"mailbox":              c.Archive.Mailbox,
			"tls":                  c.Archive.TLS,
			"insecure_skip_verify": c.Archive.InsecureSkipVerify,
			"timeout":              c.Archive.Timeout.String(),
		},
		"store": map[string]any{
			"driver":     c.Store.Driver,
			"dsn":        maskDSN(c.Store.DSN),
			"collection": c.Store.Collection,
		},
	}

	return yaml.Marshal(view)
}

// maskDSN hides the password of a URL or key=value style DSN.
func maskDSN(dsn string) string {
	if scheme, rest, ok := strings.Cut(dsn, "://"); ok {
		userinfo, host, ok := strings.Cut(rest, "@")
		if !ok {
			return dsn
		}
		if user, _, ok := strings.Cut(userinfo, ":"); ok {
			return scheme + "://" + user + ":" + redacted + "@" + host
		}
		return dsn
	}

	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=" + redacted
		}
	}
	return strings.Join(fields, " ")
}
