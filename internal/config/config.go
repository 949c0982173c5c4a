// Package config provides Viper-based configuration loading for the route server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ResolverConfig selects and tunes a zone name resolution strategy.
type ResolverConfig struct {
	// Strategy is "fuzzy" or "prefix".
	Strategy string `mapstructure:"strategy"`
	// AcceptThreshold is the minimum fuzzy score (0-100) for a match.
	AcceptThreshold int `mapstructure:"accept_threshold"`
	// SuggestThreshold is the minimum fuzzy score (0-100) for a suggestion.
	SuggestThreshold int `mapstructure:"suggest_threshold"`
	// MaxSuggestions caps suggestions on a failed match.
	MaxSuggestions int `mapstructure:"max_suggestions"`
	// ExactWins lets the prefix strategy accept an exact name that also
	// prefixes other names.
	ExactWins bool `mapstructure:"exact_wins"`
}

// WebConfig holds HTTP front end settings.
type WebConfig struct {
	// Enabled turns the HTTP listener on.
	Enabled bool `mapstructure:"enabled"`
	// Host is the bind address.
	Host string `mapstructure:"host"`
	// Port is the TCP port.
	Port int `mapstructure:"port"`
	// ReadTimeout bounds reading a full request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Summary prefixes routes with the routes-checked sentence.
	Summary bool `mapstructure:"summary"`
	// Resolver configures name resolution for web lookups.
	Resolver ResolverConfig `mapstructure:"resolver"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// TelnetConfig holds chat (Telnet) front end settings.
type TelnetConfig struct {
	// Enabled turns the Telnet listener on.
	Enabled bool `mapstructure:"enabled"`
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Summary prefixes routes with the routes-checked sentence.
	Summary bool `mapstructure:"summary"`
	// Resolver configures name resolution for chat lookups.
	Resolver ResolverConfig `mapstructure:"resolver"`
	// MaxLineLength caps one input line in bytes. Zero means the default.
	MaxLineLength int `mapstructure:"max_line_length"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// AtlasConfig holds zone data settings.
type AtlasConfig struct {
	// ZonesFile is the JSON or YAML zone data file.
	ZonesFile string `mapstructure:"zones_file"`
	// Watch reloads the graph when ZonesFile changes.
	Watch bool `mapstructure:"watch"`
	// Debounce is how long to wait for writes to settle before reloading.
	Debounce time.Duration `mapstructure:"debounce"`
}

// RoutingConfig names the zones with special travel rules.
type RoutingConfig struct {
	Hub         string   `mapstructure:"hub"`
	HubPriority []string `mapstructure:"hub_priority"`
	GuildHall   string   `mapstructure:"guild_hall"`
	StoneNPC    string   `mapstructure:"stone_npc"`
	Inn         string   `mapstructure:"inn"`
	MagusTag    string   `mapstructure:"magus_tag"`
	// DefaultFrom is the start zone when a request leaves it blank.
	DefaultFrom string `mapstructure:"default_from"`
	// Indent is one level of staircase indentation in rendered routes.
	Indent string `mapstructure:"indent"`
	// MaxNameLength caps a requested zone name in runes. Zero means the default.
	MaxNameLength int `mapstructure:"max_name_length"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Web     WebConfig     `mapstructure:"web"`
	Telnet  TelnetConfig  `mapstructure:"telnet"`
	Atlas   AtlasConfig   `mapstructure:"atlas"`
	Routing RoutingConfig `mapstructure:"routing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateWeb(c.Web); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAtlas(c.Atlas); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRouting(c.Routing); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWeb(w WebConfig) error {
	var errs []string
	if w.Port < 1 || w.Port > 65535 {
		errs = append(errs, fmt.Sprintf("web.port must be 1-65535, got %d", w.Port))
	}
	if w.ReadTimeout < 0 {
		errs = append(errs, "web.read_timeout must not be negative")
	}
	if w.WriteTimeout < 0 {
		errs = append(errs, "web.write_timeout must not be negative")
	}
	if err := validateResolver("web.resolver", w.Resolver); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.MaxLineLength < 0 {
		errs = append(errs, fmt.Sprintf("telnet.max_line_length must not be negative, got %d", t.MaxLineLength))
	}
	if err := validateResolver("telnet.resolver", t.Resolver); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateResolver(prefix string, r ResolverConfig) error {
	var errs []string
	validStrategies := map[string]bool{"fuzzy": true, "prefix": true}
	if !validStrategies[r.Strategy] {
		errs = append(errs, fmt.Sprintf("%s.strategy must be one of [fuzzy, prefix], got %q", prefix, r.Strategy))
	}
	if r.AcceptThreshold < 0 || r.AcceptThreshold > 100 {
		errs = append(errs, fmt.Sprintf("%s.accept_threshold must be 0-100, got %d", prefix, r.AcceptThreshold))
	}
	if r.SuggestThreshold < 0 || r.SuggestThreshold > r.AcceptThreshold {
		errs = append(errs, fmt.Sprintf("%s.suggest_threshold must be between 0 and accept_threshold, got %d", prefix, r.SuggestThreshold))
	}
	if r.MaxSuggestions < 0 {
		errs = append(errs, fmt.Sprintf("%s.max_suggestions must be >= 0, got %d", prefix, r.MaxSuggestions))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAtlas(a AtlasConfig) error {
	if a.ZonesFile == "" {
		return errors.New("atlas.zones_file must not be empty")
	}
	if a.Debounce < 0 {
		return errors.New("atlas.debounce must not be negative")
	}
	return nil
}

func validateRouting(r RoutingConfig) error {
	var errs []string
	if r.DefaultFrom == "" {
		errs = append(errs, "routing.default_from must not be empty")
	}
	if r.Hub == "" && len(r.HubPriority) > 0 {
		errs = append(errs, "routing.hub_priority requires routing.hub")
	}
	if r.MaxNameLength < 0 {
		errs = append(errs, fmt.Sprintf("routing.max_name_length must not be negative, got %d", r.MaxNameLength))
	}
	if strings.TrimSpace(r.Indent) != "" {
		errs = append(errs, fmt.Sprintf("routing.indent must contain only whitespace, got %q", r.Indent))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// New returns a Viper instance with defaults and ZONEROUTE_ environment overrides.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("ZONEROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("web.enabled", true)
	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", 5000)
	v.SetDefault("web.read_timeout", "10s")
	v.SetDefault("web.write_timeout", "10s")
	v.SetDefault("web.summary", true)
	v.SetDefault("web.resolver.strategy", "fuzzy")
	v.SetDefault("web.resolver.accept_threshold", 70)
	v.SetDefault("web.resolver.suggest_threshold", 30)
	v.SetDefault("web.resolver.max_suggestions", 3)
	v.SetDefault("web.resolver.exact_wins", false)

	v.SetDefault("telnet.enabled", true)
	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "5m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.summary", false)
	v.SetDefault("telnet.resolver.strategy", "prefix")
	v.SetDefault("telnet.resolver.accept_threshold", 50)
	v.SetDefault("telnet.resolver.suggest_threshold", 30)
	v.SetDefault("telnet.resolver.max_suggestions", 3)
	v.SetDefault("telnet.resolver.exact_wins", false)
	v.SetDefault("telnet.max_line_length", 512)

	v.SetDefault("atlas.zones_file", "content/zones.json")
	v.SetDefault("atlas.watch", true)
	v.SetDefault("atlas.debounce", "250ms")

	v.SetDefault("routing.hub", "Guild Lobby")
	v.SetDefault("routing.hub_priority", []string{"Guild Hall", "Plane of Knowledge"})
	v.SetDefault("routing.guild_hall", "Guild Hall")
	v.SetDefault("routing.stone_npc", "Zeflmin Werlikanin")
	v.SetDefault("routing.inn", "Laurion Inn")
	v.SetDefault("routing.magus_tag", "Magus")
	v.SetDefault("routing.default_from", "Guild Hall")
	v.SetDefault("routing.indent", "  ")
	v.SetDefault("routing.max_name_length", 128)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
