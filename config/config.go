// Package config binds the application flags, environment variables and an
// optional config file into one Config.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. FIELDREPORTS_SEED_DEMO.
const EnvPrefix = "FIELDREPORTS"

const (
	DefaultDraftDelay = time.Second
	DefaultMaxHistory = 10
)

type Config struct {
	// DraftDelay is how long after the last edit a workspace draft is saved.
	DraftDelay time.Duration `mapstructure:"draft_delay"`
	// SeedDemo creates the demo user and a sample report on start.
	SeedDemo bool `mapstructure:"seed_demo"`
	// MaxHistory is the number of results the calculator remembers.
	MaxHistory int `mapstructure:"max_history"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DraftDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxHistory, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

// flag name -> config key
var flagKeys = map[string]string{
	"draftDelay": "draft_delay",
	"seedDemo":   "seed_demo",
	"maxHistory": "max_history",
	"config":     "config",
}

// RegisterFlags adds the application flags to fs, typically the persistent
// flags of the PocketBase root command.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Duration("draftDelay", DefaultDraftDelay, "delay after the last edit before a workspace draft is saved")
	fs.Bool("seedDemo", false, "create a demo user and a sample report")
	fs.Int("maxHistory", DefaultMaxHistory, "number of calculator results to remember")
	fs.String("config", "", "optional config file (yaml, json or toml)")
}

// Load reads the configuration. Flags set on the command line win over
// environment variables, which win over the config file and the defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("draft_delay", DefaultDraftDelay)
	v.SetDefault("seed_demo", false)
	v.SetDefault("max_history", DefaultMaxHistory)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
