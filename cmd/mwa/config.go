package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Suite       string
	Host        string
	Port        uint16
	BaseURL     string
	MaxAttempts int
	RetryDelay  time.Duration
	Launcher    []string
	MetricsAddr string

	AppName string
	AppURI  string
	AppIcon string
	Chain   string
}

type rawConfig struct {
	Suite       string   `toml:"suite"`
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	BaseURL     string   `toml:"base_url"`
	MaxAttempts int      `toml:"max_attempts"`
	RetryDelay  string   `toml:"retry_delay"`
	Launcher    []string `toml:"launcher"`
	MetricsAddr string   `toml:"metrics_addr"`

	App struct {
		Name  string `toml:"name"`
		URI   string `toml:"uri"`
		Icon  string `toml:"icon"`
		Chain string `toml:"chain"`
	} `toml:"app"`
}

func defaultConfig() Config {
	return Config{
		AppName: "mwa",
		Chain:   "solana:devnet",
	}
}

// loadConfig reads path over the defaults, a missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	var raw rawConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config file does not exist, using defaults", "file", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	if meta.IsDefined("suite") {
		cfg.Suite = raw.Suite
	}
	if meta.IsDefined("host") {
		cfg.Host = raw.Host
	}
	if meta.IsDefined("port") {
		if raw.Port < 0 || raw.Port > 65535 {
			return cfg, fmt.Errorf("port out of range 0-65535: %d", raw.Port)
		}
		cfg.Port = uint16(raw.Port)
	}
	if meta.IsDefined("base_url") {
		cfg.BaseURL = raw.BaseURL
	}
	if meta.IsDefined("max_attempts") {
		cfg.MaxAttempts = raw.MaxAttempts
	}
	if meta.IsDefined("retry_delay") {
		d, err := time.ParseDuration(raw.RetryDelay)
		if err != nil {
			return cfg, fmt.Errorf("invalid retry_delay: %w", err)
		}
		cfg.RetryDelay = d
	}
	if meta.IsDefined("launcher") {
		cfg.Launcher = raw.Launcher
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = raw.MetricsAddr
	}
	if meta.IsDefined("app", "name") {
		cfg.AppName = raw.App.Name
	}
	if meta.IsDefined("app", "uri") {
		cfg.AppURI = raw.App.URI
	}
	if meta.IsDefined("app", "icon") {
		cfg.AppIcon = raw.App.Icon
	}
	if meta.IsDefined("app", "chain") {
		cfg.Chain = raw.App.Chain
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		slog.Warn("ignoring unknown config keys", "keys", undecoded)
	}

	slog.Info("loaded config from file", "file", path)

	return cfg, nil
}
