package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/logging"
	"github.com/belphemur/sleep-scatter/internal/plot"
)

// EnvPrefix is the prefix of environment variables overriding file values.
// Nested keys use a double underscore, e.g. SLEEP_SCATTER_PLOT__WIDTH.
const EnvPrefix = "SLEEP_SCATTER_"

// Config holds the application configuration
type Config struct {
	App     AppConfig     `koanf:"app"`
	Plot    PlotConfig    `koanf:"plot"`
	Service ServiceConfig `koanf:"service"`
}

// AppConfig holds the HTTP server configuration
type AppConfig struct {
	Port int `koanf:"port"`
}

// PlotConfig describes the scatter plot: canvas size, data domains and where the data lives
type PlotConfig struct {
	Width       int                 `koanf:"width"`
	Height      int                 `koanf:"height"`
	Padding     int                 `koanf:"padding"`
	XDomain     []float64           `koanf:"x_domain"`
	YDomain     []float64           `koanf:"y_domain"`
	Datasource  string              `koanf:"datasource"`
	PointRadius float64             `koanf:"point_radius"`
	ColorMode   constants.ColorMode `koanf:"color_mode"`
	PlotDiv     string              `koanf:"plot_div"`
	DaysForm    string              `koanf:"days_form"`
}

// ServiceConfig holds the service configuration
type ServiceConfig struct {
	StateFile    string        `koanf:"state_file"`
	LogLevel     string        `koanf:"log_level"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
}

// Geometry converts the validated plot section into the renderer's configuration
func (p PlotConfig) Geometry() plot.Config {
	cfg := plot.Config{
		Width:       p.Width,
		Height:      p.Height,
		Padding:     p.Padding,
		PointRadius: p.PointRadius,
	}
	copy(cfg.XDomain[:], p.XDomain)
	copy(cfg.YDomain[:], p.YDomain)
	return cfg
}

// ContentWidth is the plotting width inside the padding on both sides
func (p PlotConfig) ContentWidth() float64 {
	return p.Geometry().ContentWidth()
}

// ContentHeight is the plotting height inside the padding on both sides
func (p PlotConfig) ContentHeight() float64 {
	return p.Geometry().ContentHeight()
}

// listKeys are decoded from comma separated environment values, e.g. "0,15000"
var listKeys = map[string]bool{
	"plot.x_domain": true,
	"plot.y_domain": true,
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.port":              8888,
		"plot.width":            600,
		"plot.height":           400,
		"plot.padding":          40,
		"plot.x_domain":         []float64{0, 25000},
		"plot.y_domain":         []float64{0, 12},
		"plot.point_radius":     5.0,
		"plot.color_mode":       string(constants.ColorModeMono),
		"plot.plot_div":         "plot",
		"plot.days_form":        "days",
		"service.state_file":    "data/state.db",
		"service.log_level":     "info",
		"service.session_ttl":   "24h",
		"service.fetch_timeout": "10s",
	}
}

// Load reads the configuration file, then applies environment overrides
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
			if listKeys[key] {
				parts := strings.Split(value, ",")
				for i := range parts {
					parts[i] = strings.TrimSpace(parts[i])
				}
				return key, parts
			}
			return key, value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// PORT is honoured for container platforms that inject it
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT environment variable %q: %w", port, err)
		}
		cfg.App.Port = p
	}

	configDir := filepath.Dir(path)
	cfg.Service.StateFile = resolvePath(configDir, cfg.Service.StateFile)
	if !isRemote(cfg.Plot.Datasource) {
		cfg.Plot.Datasource = resolvePath(configDir, cfg.Plot.Datasource)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Str("datasource", cfg.Plot.Datasource).
		Int("port", cfg.App.Port).
		Msg("Configuration loaded")
	return &cfg, nil
}

// resolvePath makes relative paths relative to the parent of the config directory,
// so that configs/app.toml can reference data/ next to configs/.
func resolvePath(configDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(filepath.Join(configDir, "..", p))
	if err != nil {
		return filepath.Join(configDir, "..", p)
	}
	return abs
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.App.Port < 1 || cfg.App.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.App.Port)
	}

	p := cfg.Plot
	if p.Padding < 0 {
		return fmt.Errorf("padding must not be negative")
	}
	if p.ContentWidth() <= 0 {
		return fmt.Errorf("width %d leaves no content area with padding %d", p.Width, p.Padding)
	}
	if p.ContentHeight() <= 0 {
		return fmt.Errorf("height %d leaves no content area with padding %d", p.Height, p.Padding)
	}
	if err := validateDomain("x_domain", p.XDomain); err != nil {
		return err
	}
	if err := validateDomain("y_domain", p.YDomain); err != nil {
		return err
	}
	if p.PointRadius <= 0 {
		return fmt.Errorf("point radius must be positive")
	}
	if !p.ColorMode.IsValid() {
		return fmt.Errorf("invalid color mode: %s", p.ColorMode)
	}
	if p.Datasource == "" {
		return fmt.Errorf("plot datasource is required")
	}
	if p.PlotDiv == "" || p.DaysForm == "" {
		return fmt.Errorf("plot_div and days_form mount points are required")
	}

	if cfg.Service.StateFile == "" {
		return fmt.Errorf("state file is required")
	}
	if !logging.ValidLevel(cfg.Service.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.Service.LogLevel)
	}
	if cfg.Service.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if cfg.Service.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}

	return nil
}

func validateDomain(name string, domain []float64) error {
	if len(domain) != 2 {
		return fmt.Errorf("%s must have exactly two values, got %d", name, len(domain))
	}
	if domain[0] >= domain[1] {
		return fmt.Errorf("%s minimum %g must be below maximum %g", name, domain[0], domain[1])
	}
	return nil
}
