package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverCSV      = "csv"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Upload  UploadConfig  `mapstructure:"upload"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	StaticDir   string `mapstructure:"static_dir"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver"`
	CSVPath     string `mapstructure:"csv_path"`
	DatabaseURL string `mapstructure:"database_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

type UploadConfig struct {
	LimitPerMin int   `mapstructure:"limit_per_min"`
	MaxBytes    int64 `mapstructure:"max_bytes"`
}

// CleanConfig drives the offline cleaning pass.
type CleanConfig struct {
	Input    string `mapstructure:"input"`
	Output   string `mapstructure:"output"`
	DryRun   bool   `mapstructure:"dry_run"`
	LogLevel string `mapstructure:"log_level"`
}

// Addr is the listen address for Port on every interface.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Origins splits the comma separated CORS origin list.
func (c ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads a .env file if one exists, then the environment, on top of the
// defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.cors_origins", "*")

	v.SetDefault("store.driver", DriverCSV)
	v.SetDefault("store.csv_path", "data.csv")
	v.SetDefault("store.database_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.token", "")

	v.SetDefault("upload.limit_per_min", 10)
	v.SetDefault("upload.max_bytes", 10<<20)
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.port":          "PORT",
		"server.static_dir":    "STATIC_DIR",
		"server.cors_origins":  "CORS_ORIGINS",
		"store.driver":         "STORE_DRIVER",
		"store.csv_path":       "CSV_FILE",
		"store.database_url":   "DATABASE_URL",
		"log.level":            "LOG_LEVEL",
		"log.format":           "LOG_FORMAT",
		"metrics.enabled":      "METRICS_ENABLED",
		"metrics.token":        "METRICS_TOKEN",
		"upload.limit_per_min": "UPLOAD_LIMIT_PER_MIN",
		"upload.max_bytes":     "UPLOAD_MAX_BYTES",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// LoadClean reads the cleaning pass settings. Flags the caller bound on v
// beforehand win over the environment and the .env file.
func LoadClean(v *viper.Viper) (*CleanConfig, error) {
	_ = godotenv.Load()

	v.SetDefault("clean.input", "data.csv")
	v.SetDefault("clean.output", "data_cleaned.csv")
	v.SetDefault("clean.dry_run", false)
	v.SetDefault("clean.log_level", "warn")

	for key, env := range map[string]string{
		"clean.input":     "CLEAN_INPUT",
		"clean.output":    "CLEAN_OUTPUT",
		"clean.log_level": "LOG_LEVEL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env: %w", err)
		}
	}

	var wrap struct {
		Clean CleanConfig `mapstructure:"clean"`
	}
	if err := v.Unmarshal(&wrap); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	c := &wrap.Clean
	switch {
	case c.Input == "" || c.Output == "":
		return nil, errors.New("invalid configuration: input and output are required")
	case c.Input == c.Output:
		return nil, fmt.Errorf("invalid configuration: input and output must differ: %s", c.Input)
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}

	switch c.Store.Driver {
	case DriverCSV:
		if c.Store.CSVPath == "" {
			return errors.New("CSV_FILE is required for the csv driver")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Upload.LimitPerMin <= 0 {
		return errors.New("upload limit must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("upload size limit must be positive")
	}
	return nil
}
