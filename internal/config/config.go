package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
)

// EnvPrefix starts every environment override, e.g. ASSETINV_SERVER_PORT.
const EnvPrefix = "ASSETINV"

// Config represents the complete configuration for the agent and server
type Config struct {
	Agent  AgentConfig  `yaml:"agent"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// AgentConfig controls where and how the agent delivers its record
type AgentConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Retries   int    `yaml:"retries"`
	TimeoutMS int    `yaml:"timeout_ms"`
	Version   string `yaml:"version"`
}

// ServerConfig controls the collection server
type ServerConfig struct {
	Port         int    `yaml:"port"`
	StorePath    string `yaml:"store_path"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// LogConfig controls the application log file
type LogConfig struct {
	File string `yaml:"file"`
}

// Defaults
const (
	DefaultPort         = 8080
	DefaultMinTimeoutMS = 200
	DefaultMaxBodyBytes = 4 * 1024 * 1024
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Host:      "127.0.0.1",
			Port:      DefaultPort,
			Path:      "/api/assets",
			Retries:   3,
			TimeoutMS: 2000,
			Version:   "1.0.0",
		},
		Server: ServerConfig{
			Port:         DefaultPort,
			StorePath:    filepath.Join("data", "assets.jsonl"),
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{
			File: filepath.Join("logs", "app.log"),
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".assetinv.yml", ".assetinv.yaml", "assetinv.yml", "assetinv.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// EnvName returns the environment variable that overrides a YAML key path
// such as "server.store_path".
func EnvName(keyPath string) string {
	return strcase.ToScreamingSnake(EnvPrefix + "." + keyPath)
}

type envBinding struct {
	key string
	set func(string) error
}

func (c *Config) bindings() []envBinding {
	str := func(dst *string) func(string) error {
		return func(s string) error { *dst = s; return nil }
	}
	num := func(dst *int) func(string) error {
		return func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		}
	}
	return []envBinding{
		{"agent.host", str(&c.Agent.Host)},
		{"agent.port", num(&c.Agent.Port)},
		{"agent.path", str(&c.Agent.Path)},
		{"agent.retries", num(&c.Agent.Retries)},
		{"agent.timeout_ms", num(&c.Agent.TimeoutMS)},
		{"agent.version", str(&c.Agent.Version)},
		{"server.port", num(&c.Server.Port)},
		{"server.store_path", str(&c.Server.StorePath)},
		{"server.max_body_bytes", func(s string) error {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return err
			}
			c.Server.MaxBodyBytes = n
			return nil
		}},
		{"log.file", str(&c.Log.File)},
	}
}

// ApplyEnv overrides fields from environment variables looked up with
// lookup (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, b := range c.bindings() {
		name := EnvName(b.key)
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := b.set(val); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	return nil
}

// Normalize clamps out-of-range settings to usable values.
func (c *Config) Normalize() {
	if c.Agent.Port <= 0 {
		c.Agent.Port = DefaultPort
	}
	if c.Agent.Retries < 0 {
		c.Agent.Retries = 0
	}
	if c.Agent.TimeoutMS < DefaultMinTimeoutMS {
		c.Agent.TimeoutMS = DefaultMinTimeoutMS
	}
	if c.Server.Port <= 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Load builds the effective configuration: defaults, then the config file
// (explicit path or the first one found upwards), then the environment.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg := NewConfig()
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("cannot load '%s'", configPath), err)
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, errors.NewConfigError("invalid environment override", err)
	}
	cfg.Normalize()
	return cfg, nil
}
