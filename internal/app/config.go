package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"picgo-mcp/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. PICGO_MCP_PICGO_UPLOADURL.
const EnvPrefix = "PICGO_MCP"

const (
	KeyUploadURL           = "picgo.uploadURL"
	KeyHeartbeatURL        = "picgo.heartbeatURL"
	KeyLogLevel            = "log.level"
	KeyObservabilityListen = "observability.listenAddress"
	KeyProbeOnStart        = "probeOnStart"
)

// Config is the effective runtime configuration.
type Config struct {
	PicGo         PicGoConfig         `mapstructure:"picgo" yaml:"picgo"`
	Log           LogConfig           `mapstructure:"log" yaml:"log"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
	ProbeOnStart  bool                `mapstructure:"probeOnStart" yaml:"probeOnStart"`
}

type PicGoConfig struct {
	UploadURL    string `mapstructure:"uploadURL" yaml:"uploadURL"`
	HeartbeatURL string `mapstructure:"heartbeatURL" yaml:"heartbeatURL"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type ObservabilityConfig struct {
	// ListenAddress enables /metrics and /healthz when set.
	ListenAddress string `mapstructure:"listenAddress" yaml:"listenAddress"`
}

// NewViper returns a viper instance with defaults and environment overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyUploadURL, domain.DefaultUploadURL)
	v.SetDefault(KeyHeartbeatURL, domain.DefaultHeartbeatURL)
	v.SetDefault(KeyLogLevel, domain.DefaultLogLevel)
	v.SetDefault(KeyObservabilityListen, domain.DefaultObservabilityListenAddress)
	v.SetDefault(KeyProbeOnStart, domain.DefaultProbeOnStart)
}

// LoadConfig reads the optional config file at path and decodes the merged settings.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.PicGo.UploadURL = strings.TrimSpace(cfg.PicGo.UploadURL)
	cfg.PicGo.HeartbeatURL = strings.TrimSpace(cfg.PicGo.HeartbeatURL)
	cfg.Observability.ListenAddress = strings.TrimSpace(cfg.Observability.ListenAddress)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks endpoint URLs and the log level.
func (c Config) Validate() error {
	var errs []error
	if err := validateHTTPURL(c.PicGo.UploadURL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyUploadURL, err))
	}
	if c.PicGo.HeartbeatURL != "" {
		if err := validateHTTPURL(c.PicGo.HeartbeatURL); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyHeartbeatURL, err))
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	return errors.Join(errs...)
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("host is required")
	}
	return nil
}
