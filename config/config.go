// config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/shiftdevices/wallycore/pkg/crypto"
	"github.com/shiftdevices/wallycore/pkg/logging"
)

// LoggingConfig controls the CLI's diagnostic output
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level" envconfig:"LOG_LEVEL"`
	Format string `json:"format" mapstructure:"format" envconfig:"LOG_FORMAT"`
	File   string `json:"file" mapstructure:"file" envconfig:"LOG_FILE"`
}

// SigningConfig carries the defaults the sign/verify commands start from
type SigningConfig struct {
	// Scheme is the default signature scheme: "ecdsa" or "schnorr".
	Scheme string `json:"scheme" mapstructure:"scheme" envconfig:"SCHEME"`

	// KeyFile is a default path to a hex or WIF private key. When empty
	// the CLI prompts on the terminal.
	KeyFile string `json:"key_file" mapstructure:"key_file" envconfig:"KEY_FILE"`

	// Uncompressed switches keygen's WIF/address output to the
	// uncompressed public key form.
	Uncompressed bool `json:"uncompressed" mapstructure:"uncompressed" envconfig:"UNCOMPRESSED"`
}

// Config is the full CLI configuration
type Config struct {
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Signing SigningConfig `json:"signing" mapstructure:"signing"`
}

// DefaultConfig returns the configuration used when neither file nor
// environment set a value.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  logging.InfoLevel,
			Format: logging.ConsoleFormat,
		},
		Signing: SigningConfig{
			Scheme: crypto.SchemeECDSA.String(),
		},
	}
}

// Load reads configuration from an optional file and environment
// variables. File settings override defaults; WALLYSIGN_* environment
// variables override both.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Load from config file if it exists
	if configPath != "" {
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := viper.Unmarshal(cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	// Override with environment variables
	if err := envconfig.Process("WALLYSIGN", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := crypto.ParseScheme(c.Signing.Scheme); err != nil {
		return fmt.Errorf("signing.scheme: %w", err)
	}

	switch c.Logging.Level {
	case logging.DebugLevel, logging.InfoLevel, logging.WarnLevel, logging.ErrorLevel:
	default:
		return fmt.Errorf("logging.level: invalid level %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case logging.JSONFormat, logging.ConsoleFormat:
	default:
		return fmt.Errorf("logging.format: invalid format %q", c.Logging.Format)
	}

	if c.Signing.KeyFile != "" {
		if _, err := os.Stat(c.Signing.KeyFile); err != nil {
			return fmt.Errorf("signing.key_file: %w", err)
		}
	}
	return nil
}

// Scheme returns the configured default scheme as its typed value.
func (c *Config) Scheme() crypto.Scheme {
	scheme, _ := crypto.ParseScheme(c.Signing.Scheme)
	return scheme
}

// LogConfig maps the logging section onto the logger's configuration.
func (c *Config) LogConfig() *logging.LogConfig {
	out := c.Logging.File
	if out == "" {
		out = "stderr"
	}
	return &logging.LogConfig{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		OutputPath: out,
	}
}
