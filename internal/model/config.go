package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the complete privdiag configuration.
// Precedence: CLI flags > PRIVDIAG_* env > config file > defaults.
type Config struct {
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	ADB         ADBConfig         `mapstructure:"adb" yaml:"adb"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // trace, debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

// ADBConfig controls device fact collection over adb
type ADBConfig struct {
	Path      string        `mapstructure:"path" yaml:"path"`             // adb binary
	Serial    string        `mapstructure:"serial" yaml:"serial"`         // Default device serial (empty = only device)
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`       // Per command
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // Commands per second per device
	Burst     int           `mapstructure:"burst" yaml:"burst"`
}

// CacheConfig controls the last-report store
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir       string        `mapstructure:"dir" yaml:"dir"`
	MemoryTTL time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`         // Export directory
	Format  string `mapstructure:"format" yaml:"format"`   // text or json
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"` // Extra progress on stderr
}

// ConcurrencyConfig controls batch scanning
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LLMConfig controls the optional advisor
type LLMConfig struct {
	Provider  string `mapstructure:"provider" yaml:"provider"` // openai, ollama, "" (disabled)
	Model     string `mapstructure:"model" yaml:"model"`
	APIKey    string `mapstructure:"api_key" yaml:"-"` // Never written to disk
	BaseURL   string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout   int    `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	Strict    bool   `mapstructure:"strict" yaml:"strict"` // Reject advice echoing raw sensitive values
}

// ServerConfig controls `privdiag serve`
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		ADB: ADBConfig{
			Path:      "adb",
			Timeout:   10 * time.Second,
			RateLimit: 20,
			Burst:     5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: "text",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 600,
			Strict:    true,
		},
		Server: ServerConfig{
			Addr:           ":8089",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"*"},
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "privdiag-cache")
	}
	return filepath.Join(home, ".privdiag", "cache")
}
