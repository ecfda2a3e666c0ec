// Package config loads service configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ScanTimeout     time.Duration `mapstructure:"scan_timeout"`
}

type Scan struct {
	DefaultRegions []string `mapstructure:"default_regions"`
}

type Chat struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

type KMS struct {
	Region string `mapstructure:"region"`
}

type Config struct {
	Server Server `mapstructure:"server"`
	Scan   Scan   `mapstructure:"scan"`
	Chat   Chat   `mapstructure:"chat"`
	KMS    KMS    `mapstructure:"kms"`
}

// Load reads configuration from the given path (optional) and the DZERA_*
// environment namespace, e.g. DZERA_CHAT_API_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.scan_timeout", 120*time.Second)
	v.SetDefault("scan.default_regions", []string{"us-east-1", "us-west-2"})
	v.SetDefault("chat.endpoint", "https://api.openai.com/v1")
	v.SetDefault("chat.model", "gpt-4o-mini")
	// Every key needs a default (even an empty one) or viper's Unmarshal
	// will not see its environment override.
	v.SetDefault("chat.api_key", "")
	v.SetDefault("kms.region", "us-east-1")

	v.SetEnvPrefix("DZERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
