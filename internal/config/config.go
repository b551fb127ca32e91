package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/weave-ui/weave/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weave.json"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "WEAVE"

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultTimeout is the default per-attempt transport timeout.
	DefaultTimeout = 3 * time.Second

	// DefaultSnapshotDir is the default snapshot directory.
	DefaultSnapshotDir = "snapshots"

	// DefaultRegion is the default S3 region.
	DefaultRegion = "us-east-1"
)

// Config is the complete weave.json configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log" json:"log"`
	Inspector InspectorConfig `mapstructure:"inspector" json:"inspector"`
	Transport TransportConfig `mapstructure:"transport" json:"transport"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot" json:"snapshot"`
	Tracing   TracingConfig   `mapstructure:"tracing" json:"tracing"`

	// path is where the config was loaded from, if a file existed.
	path string
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" json:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" json:"format"`
}

// InspectorConfig configures the devtools HTTP server.
type InspectorConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

// TransportConfig holds defaults for outgoing requests.
type TransportConfig struct {
	// Tries is the retry budget; requests are attempted Tries+1 times.
	Tries int `mapstructure:"tries" json:"tries"`

	// Timeout bounds a single attempt.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// SnapshotConfig selects where snapshots are written. A non-empty Bucket
// selects S3, otherwise snapshots go to Dir.
type SnapshotConfig struct {
	Dir    string `mapstructure:"dir" json:"dir"`
	Bucket string `mapstructure:"bucket" json:"bucket"`
	Prefix string `mapstructure:"prefix" json:"prefix"`
	Region string `mapstructure:"region" json:"region"`
}

// TracingConfig toggles OpenTelemetry spans.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// New returns a configuration with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Inspector: InspectorConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Transport: TransportConfig{
			Timeout: DefaultTimeout,
		},
		Snapshot: SnapshotConfig{
			Dir:    DefaultSnapshotDir,
			Prefix: "weave/",
			Region: DefaultRegion,
		},
	}
}

// newViper returns a viper instance carrying defaults and env bindings.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")

	d := New()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("inspector.host", d.Inspector.Host)
	v.SetDefault("inspector.port", d.Inspector.Port)
	v.SetDefault("transport.tries", d.Transport.Tries)
	v.SetDefault("transport.timeout", d.Transport.Timeout)
	v.SetDefault("snapshot.dir", d.Snapshot.Dir)
	v.SetDefault("snapshot.bucket", d.Snapshot.Bucket)
	v.SetDefault("snapshot.prefix", d.Snapshot.Prefix)
	v.SetDefault("snapshot.region", d.Snapshot.Region)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads weave.json from dir. A missing file yields the defaults with
// environment overrides applied.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (*Config, error) {
	v := newViper()

	found := false
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New("W502").
				WithDetailf("%s: %v", path, err).
				Wrap(err)
		}
		found = true
	} else if !os.IsNotExist(err) {
		return nil, errors.New("W502").
			WithDetailf("%s: %v", path, err).
			Wrap(err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("W501").
			WithDetailf("%s: %v", path, err).
			Wrap(err)
	}
	if found {
		cfg.path = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from, or "" when
// only defaults and environment applied.
func (c *Config) Path() string {
	return c.path
}

// SaveTo writes the configuration to path as JSON.
func (c *Config) SaveTo(path string) error {
	v := viper.New()
	v.SetConfigType("json")
	v.Set("log.level", c.Log.Level)
	v.Set("log.format", c.Log.Format)
	v.Set("inspector.host", c.Inspector.Host)
	v.Set("inspector.port", c.Inspector.Port)
	v.Set("transport.tries", c.Transport.Tries)
	v.Set("transport.timeout", c.Transport.Timeout.String())
	v.Set("snapshot.dir", c.Snapshot.Dir)
	v.Set("snapshot.bucket", c.Snapshot.Bucket)
	v.Set("snapshot.prefix", c.Snapshot.Prefix)
	v.Set("snapshot.region", c.Snapshot.Region)
	v.Set("tracing.enabled", c.Tracing.Enabled)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := v.WriteConfigAs(path); err != nil {
		return err
	}
	c.path = path
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return invalid("log.level").
			WithDetailf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return invalid("log.format").
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return invalid("inspector.port").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if c.Transport.Tries < 0 {
		return invalid("transport.tries").
			WithDetail("transport.tries must not be negative")
	}
	if c.Transport.Timeout <= 0 {
		return invalid("transport.timeout").
			WithDetail("transport.timeout must be positive")
	}
	return nil
}

// invalid returns a W501 error pointing at where key can be fixed.
func invalid(key string) *errors.Error {
	env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return errors.New("W501").
		WithSuggestion(fmt.Sprintf("Fix %s in %s or override it with %s.", key, ConfigFileName, env))
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	return levels[strings.ToLower(c.Log.Level)]
}

// Logger returns a logger writing to w with the configured level and
// format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// InspectorAddress returns the host:port the inspector listens on.
func (c *Config) InspectorAddress() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}

// UseS3 reports whether snapshots go to S3.
func (c *Config) UseS3() bool {
	return c.Snapshot.Bucket != ""
}
