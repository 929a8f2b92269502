package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultPath = "config.yaml"

type Config struct {
	Helper HelperConfig `mapstructure:"helper" yaml:"helper"`
	Auth   AuthConfig   `mapstructure:"auth" yaml:"auth"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`

	Port string `mapstructure:"port" yaml:"port"`
}

type HelperConfig struct {
	ScriptDir  string        `mapstructure:"script_dir" yaml:"script_dir"`
	Aria2cPath string        `mapstructure:"aria2c_path" yaml:"aria2c_path"`
	MaxRuntime time.Duration `mapstructure:"max_runtime" yaml:"max_runtime"`
	// DowngradeHTTPS rewrites https:// to http:// before handing the URL to
	// the helper. Historical behaviour; it drops transport security.
	DowngradeHTTPS bool `mapstructure:"downgrade_https" yaml:"downgrade_https"`
}

type AuthConfig struct {
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name"`
	Token      string `mapstructure:"token" yaml:"token"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// Load reads path (optional), a .env file (optional) and TOOLFETCH_* variables.
// A missing default config file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		switch {
		case explicit:
			return nil, fmt.Errorf("config file not found: %s", path)
		case fileExists("/config/config.yaml"):
			// Docker layout
			path = "/config/config.yaml"
		default:
			path = ""
		}
	}

	v := viper.New()

	// Set Defaults
	v.SetDefault("port", "8080")
	v.SetDefault("helper.script_dir", "./scripts")
	v.SetDefault("helper.aria2c_path", "")
	v.SetDefault("helper.max_runtime", "0s")
	v.SetDefault("helper.downgrade_https", true)
	v.SetDefault("auth.cookie_name", "ADCDownloadAuth")
	v.SetDefault("auth.token", "")
	v.SetDefault("log.path", "toolfetch.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "file:toolfetch.db")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("TOOLFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Helper.ScriptDir == "" {
		c.Helper.ScriptDir = "./scripts"
	}

	if c.Helper.MaxRuntime < 0 {
		return fmt.Errorf("helper.max_runtime must not be negative, got %s", c.Helper.MaxRuntime)
	}

	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "ADCDownloadAuth"
	}

	switch strings.ToLower(c.Store.Driver) {
	case "", "sqlite":
		c.Store.Driver = "sqlite"
		if c.Store.DSN == "" {
			c.Store.DSN = "file:toolfetch.db"
		}
	case "pgx", "postgres":
		c.Store.Driver = "pgx"
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported store driver %q (want sqlite or pgx)", c.Store.Driver)
	}

	if c.Port == "" {
		c.Port = "8080"
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
