// Package judgeconfig loads the judge service's YAML configuration file.
package judgeconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"judgecore/internal/judgelog"
)

const (
	defaultListenAddr     = "0.0.0.0:2502"
	defaultListenPath     = "/judge"
	defaultSandboxURL     = "http://127.0.0.1:5050"
	defaultMaxConcurrent  = 4
	defaultPingInterval   = 5 * time.Second
	defaultCinitPath      = "/usr/bin/cinit"
	defaultParallelism    = 4
)

// ServerConfig holds the websocket endpoint's listen settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	Path         string        `yaml:"path"`
	PingInterval time.Duration `yaml:"pingInterval"`
}

// SandboxConfig points the sandbox client at the external sandbox process.
type SandboxConfig struct {
	BaseURL     string `yaml:"baseURL"`
	CinitPath   string `yaml:"cinitPath"`
	Parallelism int    `yaml:"parallelism"`
}

// JudgeConfig holds the dispatcher's admission policy.
type JudgeConfig struct {
	MaxConcurrent int `yaml:"maxConcurrent"`
}

// Config is the full judge service configuration.
type Config struct {
	Server  ServerConfig       `yaml:"server"`
	Logger  judgelog.Config    `yaml:"logger"`
	Sandbox SandboxConfig      `yaml:"sandbox"`
	Judge   JudgeConfig        `yaml:"judge"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Load reads and defaults the configuration at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultListenAddr
	}
	if cfg.Server.Path == "" {
		cfg.Server.Path = defaultListenPath
	}
	if cfg.Server.PingInterval == 0 {
		cfg.Server.PingInterval = defaultPingInterval
	}
	if cfg.Sandbox.BaseURL == "" {
		cfg.Sandbox.BaseURL = defaultSandboxURL
	}
	if cfg.Sandbox.CinitPath == "" {
		cfg.Sandbox.CinitPath = defaultCinitPath
	}
	if cfg.Sandbox.Parallelism <= 0 {
		cfg.Sandbox.Parallelism = defaultParallelism
	}
	if cfg.Judge.MaxConcurrent <= 0 {
		cfg.Judge.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "json"
	}
}
