package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort        = "3000"
	DefaultTargetLeads = 1000
	DefaultPeriod      = "month"
)

// Config holds application configuration
type Config struct {
	Port               string
	DefaultTargetLeads int
	DefaultPeriod      string
	HistoryFile        string        // optional yaml file replacing the built-in monthly history
	HistoryReload      time.Duration // re-read HistoryFile this often; 0 disables
	AllowedOrigins     []string      // CORS origins for the API; empty means any
}

// Overrides are values taken from command flags. Zero values are ignored,
// except TargetLeads which is applied whenever it is non-nil.
type Overrides struct {
	Port        string
	HistoryFile string
	TargetLeads *int
}

// Load loads configuration from multiple sources with priority:
// 1. Command flags (via LoadWithOverrides)
// 2. Config file (./hirefunnel.toml or $XDG_CONFIG_HOME/hirefunnel/hirefunnel.toml)
// 3. Environment variables
func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

// LoadWithOverrides loads config and applies flag overrides
func LoadWithOverrides(o Overrides) (*Config, error) {
	v := newBaseViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return buildConfig(v, o), nil
}

func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("hirefunnel")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		v.AddConfigPath(filepath.Join(configHome, "hirefunnel"))
	}

	return v
}

func buildConfig(v *viper.Viper, o Overrides) *Config {
	cfg := &Config{
		Port:               DefaultPort,
		DefaultTargetLeads: DefaultTargetLeads,
		DefaultPeriod:      DefaultPeriod,
		AllowedOrigins:     []string{},
	}

	// Apply config file values
	if v.IsSet("port") {
		cfg.Port = v.GetString("port")
	}
	if v.IsSet("default_target_leads") {
		cfg.DefaultTargetLeads = v.GetInt("default_target_leads")
	}
	if v.IsSet("default_period") {
		cfg.DefaultPeriod = strings.ToLower(v.GetString("default_period"))
	}
	if v.IsSet("history_file") {
		cfg.HistoryFile = v.GetString("history_file")
	}
	if v.IsSet("history_reload") {
		cfg.HistoryReload = v.GetDuration("history_reload")
	}
	if v.IsSet("allowed_origins") {
		cfg.AllowedOrigins = parseOrigins(v.GetString("allowed_origins"))
	}

	// Environment fallback (only if not configured)
	if !v.IsSet("port") {
		if envPort := os.Getenv("PORT"); envPort != "" {
			cfg.Port = envPort
		}
	}
	if !v.IsSet("default_target_leads") {
		if envLeads := os.Getenv("DEFAULT_TARGET_LEADS"); envLeads != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(envLeads)); err == nil {
				cfg.DefaultTargetLeads = n
			}
		}
	}
	if !v.IsSet("default_period") {
		if envPeriod := os.Getenv("DEFAULT_PERIOD"); envPeriod != "" {
			cfg.DefaultPeriod = strings.ToLower(envPeriod)
		}
	}
	if !v.IsSet("history_file") {
		cfg.HistoryFile = os.Getenv("HISTORY_FILE")
	}
	if !v.IsSet("history_reload") {
		if envReload := os.Getenv("HISTORY_RELOAD"); envReload != "" {
			if d, err := time.ParseDuration(strings.TrimSpace(envReload)); err == nil {
				cfg.HistoryReload = d
			}
		}
	}
	if !v.IsSet("allowed_origins") {
		if envOrigins := os.Getenv("ALLOWED_ORIGINS"); envOrigins != "" {
			cfg.AllowedOrigins = parseOrigins(envOrigins)
		}
	}

	// Apply overrides (flags) last
	if o.Port != "" {
		cfg.Port = o.Port
	}
	if o.HistoryFile != "" {
		cfg.HistoryFile = o.HistoryFile
	}
	if o.TargetLeads != nil {
		cfg.DefaultTargetLeads = *o.TargetLeads
	}

	if cfg.HistoryReload < 0 {
		cfg.HistoryReload = 0
	}

	// Lead counts never go negative past this point.
	if cfg.DefaultTargetLeads < 0 {
		cfg.DefaultTargetLeads = 0
	}

	return cfg
}

// parseOrigins parses a comma-separated string into a slice of sanitized hosts
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return []string{}
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		origin, err := SanitizeOrigin(part)
		if err != nil {
			continue
		}
		origins = append(origins, origin)
	}

	return origins
}

// CORSOrigins expands the allowed hosts into full origins for both schemes.
// An empty list allows every origin.
func (c *Config) CORSOrigins() []string {
	if len(c.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	out := make([]string, 0, len(c.AllowedOrigins)*2)
	for _, host := range c.AllowedOrigins {
		out = append(out, "http://"+host, "https://"+host)
	}
	return out
}
