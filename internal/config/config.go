package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
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

const envPrefix = "PROXY"

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// PoolConfig sizes the worker pool: Multiplier workers per CPU, and a task
// queue of QueueSize accepted connections.
type PoolConfig struct {
	Multiplier int `mapstructure:"multiplier"`
	QueueSize  int `mapstructure:"queue_size"`
}

type Config struct {
	Port           int           `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	Logging        LoggingConfig `mapstructure:"logging"`
	Pool           PoolConfig    `mapstructure:"pool"`
	Upstream       string        `mapstructure:"upstream"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

// Load builds a Config for the given listen port from defaults and PROXY_*
// environment variables, then validates it.
func Load(port int) (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", EnvDev)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("pool.multiplier", 4)
	v.SetDefault("pool.queue_size", 1024)
	v.SetDefault("upstream", "direct://")
	v.SetDefault("dial_timeout", "0s")
	v.SetDefault("max_header_bytes", 64<<10)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.Set("port", port)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Logging,
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
		validation.Field(&c.Pool,
			validation.By(func(value interface{}) error {
				pc, ok := value.(PoolConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a PoolConfig")
				}
				return validation.ValidateStruct(&pc,
					validation.Field(&pc.Multiplier, validation.Required, validation.Min(1)),
					validation.Field(&pc.QueueSize, validation.Required, validation.Min(1)),
				)
			}),
		),
		validation.Field(&c.Upstream,
			validation.Required,
			validation.By(validateUpstream),
		),
		validation.Field(&c.DialTimeout,
			validation.Min(time.Duration(0)),
		),
		validation.Field(&c.MaxHeaderBytes,
			validation.Required,
			validation.Min(1),
		),
	)
}

func validateUpstream(value interface{}) error {
	upstream, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	u, err := url.Parse(upstream)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	switch strings.ToLower(u.Scheme) {
	case "direct":
		return nil
	case "socks5", "http", "https":
		if u.Hostname() == "" {
			return validation.NewError("validation_missing_host", "upstream URL must have a host")
		}
		return nil
	default:
		return validation.NewError("validation_invalid_scheme", "upstream must use direct, socks5, http or https scheme")
	}
}
