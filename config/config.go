package config

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	KindMax   = "max"
	KindRange = "range"
	KindAny   = "any"
)

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	Environment     string `mapstructure:"environment"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

type HandlerConfig struct {
	Name string  `mapstructure:"name"`
	Kind string  `mapstructure:"kind"`
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
}

type ChainConfig struct {
	Name     string          `mapstructure:"name"`
	Handlers []HandlerConfig `mapstructure:"handlers"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Chains  []ChainConfig `mapstructure:"chains"`
}

// DefaultChains is used when no chain is configured: the classic purchase
// approval escalation.
func DefaultChains() []ChainConfig {
	return []ChainConfig{
		{
			Name: "approval",
			Handlers: []HandlerConfig{
				{Name: "TeamLead", Kind: KindMax, Max: 2},
				{Name: "ProjectManager", Kind: KindMax, Max: 5},
				{Name: "Director", Kind: KindMax, Max: 10},
			},
		},
	}
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("metrics.buffer_size", 1000)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Warn("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if len(cfg.Chains) == 0 {
		cfg.Chains = DefaultChains()
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
					validation.Field(&sc.ReadTimeout, validation.By(validateDuration)),
					validation.Field(&sc.WriteTimeout, validation.By(validateDuration)),
					validation.Field(&sc.ShutdownTimeout, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Metrics,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.BufferSize, validation.Required, validation.Min(1)),
				)
			}),
		),
		validation.Field(&c.Chains,
			validation.Required,
			validation.Length(1, 0),
			validation.By(uniqueChainNames),
			validation.Each(validation.By(validateChainConfig)),
		),
	)
}

// Duration parses a validated duration field, falling back to def when empty.
func Duration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if durationStr == "" {
		return nil
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func uniqueChainNames(value interface{}) error {
	chains, ok := value.([]ChainConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a list of ChainConfig")
	}

	seen := make(map[string]bool, len(chains))
	for _, c := range chains {
		if seen[c.Name] {
			return validation.NewError("validation_duplicate_chain", fmt.Sprintf("chain %q is defined more than once", c.Name))
		}
		seen[c.Name] = true
	}

	return nil
}

func validateChainConfig(value interface{}) error {
	chain, ok := value.(ChainConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ChainConfig")
	}

	return validation.ValidateStruct(&chain,
		validation.Field(&chain.Name, validation.Required),
		validation.Field(&chain.Handlers,
			validation.Required,
			validation.Length(1, 0),
			validation.By(uniqueHandlerNames),
			validation.Each(validation.By(validateHandlerConfig)),
		),
	)
}

func uniqueHandlerNames(value interface{}) error {
	handlers, ok := value.([]HandlerConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a list of HandlerConfig")
	}

	seen := make(map[string]bool, len(handlers))
	for _, h := range handlers {
		if seen[h.Name] {
			return validation.NewError("validation_duplicate_handler", fmt.Sprintf("handler %q is defined more than once", h.Name))
		}
		seen[h.Name] = true
	}

	return nil
}

func validateHandlerConfig(value interface{}) error {
	handler, ok := value.(HandlerConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a HandlerConfig")
	}

	if err := validation.ValidateStruct(&handler,
		validation.Field(&handler.Name, validation.Required),
		validation.Field(&handler.Kind,
			validation.Required,
			validation.In(KindMax, KindRange, KindAny),
		),
	); err != nil {
		return err
	}

	if handler.Kind == KindRange && handler.Min > handler.Max {
		return validation.NewError("validation_invalid_range", "min must not be greater than max")
	}

	return nil
}
