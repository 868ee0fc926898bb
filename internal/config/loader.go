// Package config loads gsa settings through viper and decodes them into
// typed structs with mapstructure.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/gsaclient/gsa/internal/gsa"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "GSA"

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// envBinding maps an environment variable (without prefix) to a config key.
type envBinding struct {
	Name string
	Key  string
}

// envBindings lists the short environment names. Every other key is still
// reachable through viper's automatic GSA_<SECTION>_<KEY> form.
var envBindings = []envBinding{
	{Name: "URL", Key: "gsa.url"},
	{Name: "ROOT_URL", Key: "gsa.root_url"},
	{Name: "TIMEOUT", Key: "gsa.timeout"},
	{Name: "USER_AGENT", Key: "gsa.user_agent"},
	{Name: "CLIENT", Key: "gsa.defaults.client"},
	{Name: "SITE", Key: "gsa.defaults.site"},
	{Name: "ACCESS", Key: "gsa.defaults.access"},

	{Name: "HOST", Key: "server.host"},
	{Name: "PORT", Key: "server.port"},
	{Name: "SHUTDOWN_TIMEOUT", Key: "server.shutdown_timeout"},

	{Name: "LOG_LEVEL", Key: "logging.level"},

	{Name: "METRICS_ENABLED", Key: "metrics.enabled"},
	{Name: "METRICS_PORT", Key: "metrics.port"},
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	search := gsa.DefaultSearchOptions()
	suggest := gsa.DefaultSuggestOptions()

	v.SetDefault("gsa.url", "")
	v.SetDefault("gsa.root_url", "")
	v.SetDefault("gsa.timeout", "10s")
	v.SetDefault("gsa.user_agent", "gsa-client")
	v.SetDefault("gsa.defaults.output", string(search.Output))
	v.SetDefault("gsa.defaults.access", search.Access)
	v.SetDefault("gsa.defaults.client", search.Client)
	v.SetDefault("gsa.defaults.proxystylesheet", search.ProxyStylesheet)
	v.SetDefault("gsa.defaults.site", search.Site)
	v.SetDefault("gsa.defaults.num", search.Num)
	v.SetDefault("gsa.defaults.requiredfields", search.RequiredFields)
	v.SetDefault("gsa.suggest.max", suggest.Max)
	v.SetDefault("gsa.suggest.format", string(suggest.Format))

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
}

// BindEnv enables GSA_* environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, b := range envBindings {
		_ = v.BindEnv(b.Key, EnvPrefix+"_"+b.Name)
	}
}

// Load decodes the settings held by v, validates them and stores the result
// for GetConfig. Safe to call again on reload.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// GetConfig returns the last loaded configuration.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// Validate checks ranges that the decoder cannot. An empty gsa.url is
// allowed here; the client rejects it per call.
func (c *Config) Validate() error {
	var problems []string

	if c.GSA.Timeout <= 0 {
		problems = append(problems, "gsa.timeout must be positive")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		problems = append(problems, fmt.Sprintf("metrics.port %d out of range", c.Metrics.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		problems = append(problems, "server.shutdown_timeout must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
