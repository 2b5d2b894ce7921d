// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultDataDir is where the benchmarking harness writes its logs.
	defaultDataDir = "public"
	// defaultManifestFile is the manifest name relative to the data directory.
	defaultManifestFile = "file-list.json"
	// defaultRefreshInterval is how often the manifest is regenerated.
	defaultRefreshInterval = 60 * time.Second
	defaultListen          = ":8080"
	defaultRateLimit       = 10.0
	defaultRateBurst       = 20
	defaultReportsDir      = "reports"
)

// Config represents the top-level application configuration.
type Config struct {
	DataDir                string                `json:"dataDir" mapstructure:"dataDir"`
	DataURL                string                `json:"dataURL,omitempty" mapstructure:"dataURL"`
	ManifestFile           string                `json:"manifestFile" mapstructure:"manifestFile"`
	RefreshIntervalSeconds int                   `json:"refreshInterval" mapstructure:"refreshInterval"`
	Watch                  bool                  `json:"watch" mapstructure:"watch"`
	PollIntervalSeconds    int                   `json:"pollInterval" mapstructure:"pollInterval"`
	HTTPTimeoutSeconds     int                   `json:"httpTimeout,omitempty" mapstructure:"httpTimeout"`
	Listen                 string                `json:"listen" mapstructure:"listen"`
	RateLimit              float64               `json:"rateLimit" mapstructure:"rateLimit"`
	RateBurst              int                   `json:"rateBurst" mapstructure:"rateBurst"`
	CORSOrigins            []string              `json:"corsOrigins,omitempty" mapstructure:"corsOrigins"`
	ReportsDir             string                `json:"reportsDir" mapstructure:"reportsDir"`
	LogFile                string                `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug                  bool                  `json:"debug" mapstructure:"debug"`
	Views                  map[string]ViewConfig `json:"views,omitempty" mapstructure:"views"`
	ConfigPath             string                `json:"-" mapstructure:"-"`
}

// ViewConfig overrides per-view behaviour.
type ViewConfig struct {
	Policy string `json:"policy,omitempty" mapstructure:"policy"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dataDir", defaultDataDir)
	v.SetDefault("dataURL", "")
	v.SetDefault("manifestFile", defaultManifestFile)
	v.SetDefault("refreshInterval", int(defaultRefreshInterval.Seconds()))
	v.SetDefault("watch", false)
	v.SetDefault("pollInterval", 0)
	v.SetDefault("httpTimeout", 0)
	v.SetDefault("listen", defaultListen)
	v.SetDefault("rateLimit", defaultRateLimit)
	v.SetDefault("rateBurst", defaultRateBurst)
	v.SetDefault("reportsDir", defaultReportsDir)
	v.SetDefault("logFile", "")
	v.SetDefault("debug", false)
}

// Defaults returns the configuration used when no file or flag says otherwise.
func Defaults() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := Decode(v)
	return cfg
}

// Decode materializes the merged state of v (flags > file > defaults) and
// validates it.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadInConfig reads the config file registered on v. A missing file is not
// an error; defaults and flags apply instead.
func ReadInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	if err := ReadInConfig(v); err != nil {
		return Config{}, err
	}
	cfg, err := Decode(v)
	if err != nil {
		return Config{}, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		cfg.ConfigPath = path
	} else {
		cfg.ConfigPath = ""
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DataDir) == "" && strings.TrimSpace(c.DataURL) == "" {
		problems = append(problems, "one of dataDir or dataURL is required")
	}
	if c.RefreshIntervalSeconds < 0 {
		problems = append(problems, "refreshInterval must not be negative")
	}
	if c.PollIntervalSeconds < 0 {
		problems = append(problems, "pollInterval must not be negative")
	}
	if c.HTTPTimeoutSeconds < 0 {
		problems = append(problems, "httpTimeout must not be negative")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		problems = append(problems, "rateLimit and rateBurst must not be negative")
	}
	for name, view := range c.Views {
		if view.Policy == "" {
			continue
		}
		if _, err := reshape.ParsePolicy(view.Policy); err != nil {
			problems = append(problems, fmt.Sprintf("views.%s: %v", name, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// RefreshInterval returns the manifest refresh period, falling back to the default.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshIntervalSeconds <= 0 {
		return defaultRefreshInterval
	}
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// PollInterval returns how often views re-fetch. Zero disables polling.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// HTTPTimeout returns the fetch timeout for remote data. Zero means none.
func (c Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "greenview.log"
}

// ManifestPath returns where the manifest lives on disk.
func (c Config) ManifestPath() string {
	return filepath.Join(c.DataDir, c.ManifestFileName())
}

// ManifestFileName returns the manifest name relative to the data root.
func (c Config) ManifestFileName() string {
	if name := strings.TrimSpace(c.ManifestFile); name != "" {
		return name
	}
	return defaultManifestFile
}

// ReportsPath returns the directory reports are written to.
func (c Config) ReportsPath() string {
	if dir := strings.TrimSpace(c.ReportsDir); dir != "" {
		return dir
	}
	return defaultReportsDir
}

// PolicyFor returns the configured match policy for a view, or fallback when
// the view has no override.
func (c Config) PolicyFor(view string, fallback reshape.MatchPolicy) reshape.MatchPolicy {
	vc, ok := c.Views[view]
	if !ok || vc.Policy == "" {
		return fallback
	}
	p, err := reshape.ParsePolicy(vc.Policy)
	if err != nil {
		return fallback
	}
	return p
}
