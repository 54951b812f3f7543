package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/ini.v1"

	"echoes/internal/domain"
)

//go:embed default.ini
var defaultConfig []byte

type HostSection struct {
	TickRate int    `ini:"TickRate"`
	LogLevel string `ini:"LogLevel"`
}

type BotsSection struct {
	Enabled bool   `ini:"Enabled"`
	Level   string `ini:"Level"`
	Seed    int64  `ini:"Seed"`
}

type TicketsSection struct {
	Issuer     string `ini:"Issuer"`
	Secret     string `ini:"Secret"`
	TTLSeconds int    `ini:"TTLSeconds"`
}

// TTL returns the ticket lifetime.
func (t TicketsSection) TTL() time.Duration {
	return time.Duration(t.TTLSeconds) * time.Second
}

// HostConfig is the server-side configuration. Gameplay tuning is fixed in
// the domain package and is not configurable.
type HostConfig struct {
	Host    HostSection
	Bots    BotsSection
	Tickets TicketsSection
}

// envKeys maps runtime env keys onto section/key pairs.
var envKeys = map[string][2]string{
	"echoes_tick_rate":          {"Host", "TickRate"},
	"echoes_log_level":          {"Host", "LogLevel"},
	"echoes_bots_enabled":       {"Bots", "Enabled"},
	"echoes_bot_level":          {"Bots", "Level"},
	"echoes_bot_seed":           {"Bots", "Seed"},
	"echoes_ticket_issuer":      {"Tickets", "Issuer"},
	"echoes_ticket_secret":      {"Tickets", "Secret"},
	"echoes_ticket_ttl_seconds": {"Tickets", "TTLSeconds"},
}

var (
	cfg      *HostConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadHostConfig loads the host configuration once. path may be empty or
// point at a missing file, in which case only the embedded defaults apply.
func LoadHostConfig(path string, env map[string]string) error {
	loadOnce.Do(func() {
		c, err := Load(path, env)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetHostConfig returns the loaded configuration, or the defaults when
// LoadHostConfig has not succeeded.
func GetHostConfig() *HostConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// Default parses the embedded defaults.
func Default() *HostConfig {
	c, err := Load("", nil)
	if err != nil {
		// The embedded file is part of the build.
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return c
}

// Load layers the file at path over the embedded defaults, applies env
// overrides and normalises the result.
func Load(path string, env map[string]string) (*HostConfig, error) {
	options := ini.LoadOptions{
		SkipUnrecognizableLines: true,
	}

	sources := []interface{}{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			sources = append(sources, path)
		}
	}

	f, err := ini.LoadSources(options, defaultConfig, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to read host config: %w", err)
	}

	for envKey, target := range envKeys {
		if v, ok := env[envKey]; ok {
			f.Section(target[0]).Key(target[1]).SetValue(strings.TrimSpace(v))
		}
	}

	var c HostConfig
	sections := []struct {
		name string
		dst  interface{}
	}{
		{"Host", &c.Host},
		{"Bots", &c.Bots},
		{"Tickets", &c.Tickets},
	}
	for _, sec := range sections {
		if err := f.Section(sec.name).MapTo(sec.dst); err != nil {
			return nil, fmt.Errorf("failed to map [%s]: %w", sec.name, err)
		}
	}
	c.normalize()
	return &c, nil
}

func (c *HostConfig) normalize() {
	c.Host.TickRate = domain.Clamp(c.Host.TickRate, 1, 120)
	c.Host.LogLevel = strings.ToUpper(strings.TrimSpace(c.Host.LogLevel))
	c.Bots.Level = strings.ToLower(strings.TrimSpace(c.Bots.Level))
	if c.Tickets.TTLSeconds < 0 {
		c.Tickets.TTLSeconds = 0
	}
}
