package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const _envPrefix = "APIWRAP"

// config holds the settings that may come from a file, the environment or
// flags. Request specific flags (method, body, form, headers) are not part
// of it.
type config struct {
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	UserAgent       string        `mapstructure:"user_agent"`
	TargetID        string        `mapstructure:"target_id"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	Insecure        bool          `mapstructure:"insecure"`
	ClientTrace     bool          `mapstructure:"client_trace"`
	NoColor         bool          `mapstructure:"no_color"`

	OTel struct {
		Enabled     bool    `mapstructure:"enabled"`
		Endpoint    string  `mapstructure:"endpoint" validate:"omitempty,hostname_port"`
		ServiceName string  `mapstructure:"service_name"`
		SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
	} `mapstructure:"otel"`

	Datadog struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"datadog"`
}

// flag name to config key, for the flags that may also come from the
// environment or a config file.
var _boundFlags = map[string]string{
	"timeout":         "timeout",
	"connect-timeout": "connect_timeout",
	"log-level":       "log_level",
	"user-agent":      "user_agent",
	"target-id":       "target_id",
	"location":        "follow_redirects",
	"insecure":        "insecure",
	"client-trace":    "client_trace",
	"no-color":        "no_color",
	"otel":            "otel.enabled",
	"otel-endpoint":   "otel.endpoint",
	"datadog-address": "datadog.address",
}

var _validate = validator.New(validator.WithRequiredStructEnabled())

// loadConfig merges, lowest priority first: defaults, the .env file, the
// config file, APIWRAP_* variables and flags set on the command line.
func loadConfig(flags *pflag.FlagSet, configFile, envFile string) (*config, error) {
	if err := godotenv.Load(envFile); err != nil && envFile != _defaultEnvFile {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("timeout", 0)
	v.SetDefault("connect_timeout", 30*time.Second)
	v.SetDefault("log_level", "warn")
	v.SetDefault("otel.service_name", "apiwrap")
	v.SetDefault("otel.sample_ratio", 1.0)

	v.SetEnvPrefix(_envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	for name, key := range _boundFlags {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := _validate.Struct(&cfg); err != nil {
		return nil, configError(err)
	}

	return &cfg, nil
}

// configError rewrites validation errors with the config keys users know.
func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
