package config

import (
	"time"
)

// Config is the complete gsa configuration. Sources, lowest precedence
// first: built-in defaults, the YAML config file, GSA_* environment
// variables, command-line flags.
type Config struct {
	GSA     GSAConfig     `mapstructure:"gsa"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// GSAConfig describes the appliance and the option defaults every call
// starts from.
type GSAConfig struct {
	URL       string         `mapstructure:"url"`
	RootURL   string         `mapstructure:"root_url"`
	Timeout   time.Duration  `mapstructure:"timeout"`
	UserAgent string         `mapstructure:"user_agent"`
	Defaults  SearchDefaults `mapstructure:"defaults"`
	Suggest   SuggestConfig  `mapstructure:"suggest"`
}

// SearchDefaults are the configurable search options.
type SearchDefaults struct {
	Output          string `mapstructure:"output"`
	Access          string `mapstructure:"access"`
	Client          string `mapstructure:"client"`
	ProxyStylesheet string `mapstructure:"proxystylesheet"`
	Site            string `mapstructure:"site"`
	Num             int    `mapstructure:"num"`
	RequiredFields  string `mapstructure:"requiredfields"`
}

// SuggestConfig are the configurable autosuggest options.
type SuggestConfig struct {
	Max    int    `mapstructure:"max"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the HTTP proxy.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig sets the server log level.
// Valid values: trace, debug, info, warn, error
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig controls the Prometheus exporter used by serve.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port of the dedicated exporter listener; /metrics on the main port
	// proxies to it.
	Port int `mapstructure:"port"`
}
