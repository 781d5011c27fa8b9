package config

import (
	"os"
	"strings"

	"codeberg.org/tovald/powerlogd/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval     = 10
	defaultLogFile      = "/var/log/powerlogd/power.csv"
	defaultCameraDevice = "/dev/video0"
	defaultDatabase     = "/var/lib/powerlogd/telemetry.db"

	configEnvVar = "POWERLOGD_CONFIG"
	envPrefix    = "POWERLOGD"
)

type Config struct {
	Interval     int    `mapstructure:"interval"`
	LogFile      string `mapstructure:"logfile"`
	CameraDevice string `mapstructure:"camera_device"`
	LogLevel     string `mapstructure:"log_level"`
	Telemetry    bool   `mapstructure:"telemetry"`
	Database     string `mapstructure:"database"`
}

// Load reads configuration from the config file, environment and command
// line flags, in increasing order of precedence.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("logfile", defaultLogFile)
	v.SetDefault("camera_device", defaultCameraDevice)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultDatabase)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("powerlogd")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	flags := pflag.NewFlagSet("powerlogd", pflag.ContinueOnError)
	flags.Int("interval", defaultInterval, "Seconds between samples")
	flags.String("logfile", defaultLogFile, "Path of the power log")
	flags.String("camera-device", defaultCameraDevice, "Camera device node to probe")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("telemetry", false, "Mirror records into the telemetry database")
	flags.String("database", defaultDatabase, "Path of the telemetry database")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// Only flags the user actually set override file and env values
	flags.Visit(func(f *pflag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration for values the daemon cannot
// start with.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if c.LogFile == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "logfile must not be empty")
	}

	if c.Telemetry && c.Database == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry enabled without database path")
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "warn", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
