package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"iol_dashboard/internal/pkg/utils"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	TransportFastHTTP = "fasthttp"
	TransportNetHTTP  = "nethttp"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// Credentials are the IOL account and, optionally, the OAuth client pair.
// They only ever come from the environment.
type Credentials struct {
	Username     string `yaml:"-"`
	Password     string `yaml:"-"`
	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
}

// IOLConfig describes the upstream brokerage API.
type IOLConfig struct {
	BaseURL                  string      `yaml:"baseURL"`
	TokenPath                string      `yaml:"tokenPath"`
	PortfolioPath            string      `yaml:"portfolioPath"`
	AccountStatusPath        string      `yaml:"accountStatusPath"`
	Transport                string      `yaml:"transport"`            // "fasthttp" or "nethttp"
	RequestTimeoutMillis     int64       `yaml:"requestTimeoutMillis"` // 0 means no client-side timeout
	RateLimitPerSecond       float64     `yaml:"rateLimitPerSecond"`   // 0 means unlimited
	RateBurst                int         `yaml:"rateBurst"`
	RequireClientCredentials bool        `yaml:"requireClientCredentials"`
	Credentials              Credentials `yaml:"-"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
}

// MetricsConfig controls the Prometheus endpoint, which is served unless disabled.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	IOL     IOLConfig     `yaml:"iol"`
	Logging LoggingConfig `yaml:"logging"`
	CORS    CORSConfig    `yaml:"cors"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Load reads the YAML configuration file at path, applies defaults and then
// environment overrides. An empty path, or a path that does not exist, yields
// the defaults; serverless deployments usually ship no file at all.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		logrus.Infof("Loading configuration from path: %s", path)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logrus.Warnf("Config file %s not found, using defaults and environment", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.IOL.Transport != TransportFastHTTP && cfg.IOL.Transport != TransportNetHTTP {
		return nil, fmt.Errorf("unknown iol.transport %q (want %q or %q)", cfg.IOL.Transport, TransportFastHTTP, TransportNetHTTP)
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.IOL.Credentials = Credentials{
		Username:     os.Getenv("IOL_USER"),
		Password:     os.Getenv("IOL_PASS"),
		ClientID:     os.Getenv("IOL_CLIENT_ID"),
		ClientSecret: os.Getenv("IOL_CLIENT_SECRET"),
	}
	cfg.IOL.BaseURL = utils.GetEnv("IOL_BASE_URL", cfg.IOL.BaseURL)
	cfg.IOL.Transport = strings.ToLower(utils.GetEnv("IOL_TRANSPORT", cfg.IOL.Transport))
	cfg.Logging.Level = utils.GetEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Server.Port = utils.GetEnv("PORT", cfg.Server.Port)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 120
	}

	if cfg.IOL.BaseURL == "" {
		cfg.IOL.BaseURL = "https://api.invertironline.com"
	}
	cfg.IOL.BaseURL = strings.TrimRight(cfg.IOL.BaseURL, "/")
	if cfg.IOL.TokenPath == "" {
		cfg.IOL.TokenPath = "/token"
	}
	if cfg.IOL.PortfolioPath == "" {
		cfg.IOL.PortfolioPath = "/api/v2/portafolio/argentina"
	}
	if cfg.IOL.AccountStatusPath == "" {
		cfg.IOL.AccountStatusPath = "/api/v2/estadocuenta"
	}
	if cfg.IOL.Transport == "" {
		cfg.IOL.Transport = TransportFastHTTP
	}
	if cfg.IOL.RateLimitPerSecond > 0 && cfg.IOL.RateBurst <= 0 {
		cfg.IOL.RateBurst = 1
		logrus.Infof("iol.rateBurst not set, defaulting to %d", cfg.IOL.RateBurst)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = []string{"*"}
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// TokenURL is the absolute URL of the password-grant endpoint.
func (c IOLConfig) TokenURL() string {
	return c.BaseURL + c.TokenPath
}
