package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Watch     WatchConfig     `yaml:"watch" envconfig:"WATCH"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// UploadConfig bounds multipart uploads
type UploadConfig struct {
	MaxFiles       int   `yaml:"max_files" envconfig:"MAX_FILES" default:"20"`
	MaxFileBytes   int64 `yaml:"max_file_bytes" envconfig:"MAX_FILE_BYTES" default:"10485760"`
	MaxMemoryBytes int64 `yaml:"max_memory_bytes" envconfig:"MAX_MEMORY_BYTES" default:"33554432"`
}

// AnalysisConfig carries the default metric parameters. Individual
// requests may override any of them.
type AnalysisConfig struct {
	MaxDays              int     `yaml:"max_days" envconfig:"MAX_DAYS" default:"365"`
	LargeChangeDeltaPct  float64 `yaml:"large_change_delta_pct" envconfig:"LARGE_CHANGE_DELTA_PCT" default:"10.0"`
	VolumeSpikeThreshold float64 `yaml:"volume_spike_threshold" envconfig:"VOLUME_SPIKE_THRESHOLD" default:"2.0"`
	MAWindow             int     `yaml:"ma_window" envconfig:"MA_WINDOW" default:"20"`
	BollingerWindow      int     `yaml:"bollinger_window" envconfig:"BOLLINGER_WINDOW" default:"20"`
	BollingerNStd        float64 `yaml:"bollinger_n_std" envconfig:"BOLLINGER_N_STD" default:"2.0"`
	RSIWindow            int     `yaml:"rsi_window" envconfig:"RSI_WINDOW" default:"14"`
	Workers              int     `yaml:"workers" envconfig:"WORKERS" default:"4"`
}

// ExportConfig controls CSV report output
type ExportConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"reports"`
}

// WatchConfig controls the scheduled directory re-scan
type WatchConfig struct {
	Schedule string `yaml:"schedule" envconfig:"SCHEDULE" default:"@hourly"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// File values first, environment wins on the second pass
	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = *fileCfg
	}

	if err := envconfig.Process("STOCKPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile returns the path to the config file
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Upload.MaxFiles <= 0 {
		return fmt.Errorf("upload max files must be positive")
	}

	if c.Upload.MaxFileBytes <= 0 {
		return fmt.Errorf("upload max file bytes must be positive")
	}

	if c.Analysis.MaxDays <= 0 {
		return fmt.Errorf("analysis max days must be positive")
	}

	if c.Analysis.LargeChangeDeltaPct <= 0 || c.Analysis.VolumeSpikeThreshold <= 0 {
		return fmt.Errorf("analysis thresholds must be positive")
	}

	if c.Analysis.MAWindow <= 0 || c.Analysis.BollingerWindow <= 0 || c.Analysis.RSIWindow <= 0 {
		return fmt.Errorf("analysis windows must be positive")
	}

	if c.Analysis.BollingerNStd <= 0 {
		return fmt.Errorf("bollinger band width must be positive")
	}

	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("analysis workers must be positive")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Upload: UploadConfig{
			MaxFiles:       20,
			MaxFileBytes:   10 << 20,
			MaxMemoryBytes: 32 << 20,
		},
		Analysis: AnalysisConfig{
			MaxDays:              365,
			LargeChangeDeltaPct:  10.0,
			VolumeSpikeThreshold: 2.0,
			MAWindow:             20,
			BollingerWindow:      20,
			BollingerNStd:        2.0,
			RSIWindow:            14,
			Workers:              4,
		},
		Export: ExportConfig{
			Dir: "reports",
		},
		Watch: WatchConfig{
			Schedule: "@hourly",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
	}
}
