// Package config loads the client configuration from a TOML file. Missing
// files and missing keys fall back to defaults; unknown keys produce
// warnings rather than errors so an old binary survives a newer config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Display  DisplayConfig
	Alliance AllianceConfig
	Events   EventsConfig
	Sim      SimConfig
}

type DisplayConfig struct {
	RefreshRateMS int `toml:"refresh_rate_ms"`
}

// AllianceConfig tunes the diplomacy overlay. Durations and cadences are
// in game ticks.
type AllianceConfig struct {
	RequestTicks int64 `toml:"request_ticks"`
	AcceptTicks  int64 `toml:"accept_ticks"`
	RejectTicks  int64 `toml:"reject_ticks"`
	TargetTicks  int64 `toml:"target_ticks"`
	NoticeTicks  int64 `toml:"notice_ticks"`
	RosterEvery  int64 `toml:"roster_every"`
	SweepEvery   int64 `toml:"sweep_every"`
}

type EventsConfig struct {
	DefaultTicks int64 `toml:"default_ticks"`
	MaxEvents    int   `toml:"max_events"`
}

type SimConfig struct {
	Scenario          string `toml:"scenario"` // path to a scenario YAML; empty = built-in demo
	AllianceLifeTicks int64  `toml:"alliance_life_ticks"`
}

func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			RefreshRateMS: 100,
		},
		Alliance: AllianceConfig{
			RequestTicks: 150,
			AcceptTicks:  50,
			RejectTicks:  150,
			TargetTicks:  300,
			NoticeTicks:  150,
			RosterEvery:  10,
			SweepEvery:   30,
		},
		Events: EventsConfig{
			DefaultTicks: 600,
			MaxEvents:    30,
		},
		Sim: SimConfig{
			AllianceLifeTicks: 300,
		},
	}
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "veldt", "config.toml")
}

func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &LoadResult{Config: DefaultConfig()}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromString(string(data))
}

func LoadFromString(data string) (*LoadResult, error) {
	cfg := DefaultConfig()
	result := &LoadResult{Config: cfg}

	if data == "" {
		return result, nil
	}

	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	knownTopLevel := map[string]bool{
		"display":  true,
		"alliance": true,
		"events":   true,
		"sim":      true,
	}
	for key := range raw {
		if !knownTopLevel[key] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key))
		}
	}

	var tf tomlFile
	if _, err := toml.Decode(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	mergeFromRaw(&result.Config, &tf, raw)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

type tomlFile struct {
	Display  *DisplayConfig  `toml:"display"`
	Alliance *AllianceConfig `toml:"alliance"`
	Events   *EventsConfig   `toml:"events"`
	Sim      *SimConfig      `toml:"sim"`
}

// mergeFromRaw copies only the keys present in the file over the defaults.
// The raw map tells presence apart from a zero value.
func mergeFromRaw(cfg *Config, tf *tomlFile, raw map[string]any) {
	if tf.Display != nil {
		if section, ok := rawSection(raw, "display"); ok {
			if _, exists := section["refresh_rate_ms"]; exists {
				cfg.Display.RefreshRateMS = tf.Display.RefreshRateMS
			}
		}
	}
	if tf.Alliance != nil {
		if section, ok := rawSection(raw, "alliance"); ok {
			if _, exists := section["request_ticks"]; exists {
				cfg.Alliance.RequestTicks = tf.Alliance.RequestTicks
			}
			if _, exists := section["accept_ticks"]; exists {
				cfg.Alliance.AcceptTicks = tf.Alliance.AcceptTicks
			}
			if _, exists := section["reject_ticks"]; exists {
				cfg.Alliance.RejectTicks = tf.Alliance.RejectTicks
			}
			if _, exists := section["target_ticks"]; exists {
				cfg.Alliance.TargetTicks = tf.Alliance.TargetTicks
			}
			if _, exists := section["notice_ticks"]; exists {
				cfg.Alliance.NoticeTicks = tf.Alliance.NoticeTicks
			}
			if _, exists := section["roster_every"]; exists {
				cfg.Alliance.RosterEvery = tf.Alliance.RosterEvery
			}
			if _, exists := section["sweep_every"]; exists {
				cfg.Alliance.SweepEvery = tf.Alliance.SweepEvery
			}
		}
	}
	if tf.Events != nil {
		if section, ok := rawSection(raw, "events"); ok {
			if _, exists := section["default_ticks"]; exists {
				cfg.Events.DefaultTicks = tf.Events.DefaultTicks
			}
			if _, exists := section["max_events"]; exists {
				cfg.Events.MaxEvents = tf.Events.MaxEvents
			}
		}
	}
	if tf.Sim != nil {
		if section, ok := rawSection(raw, "sim"); ok {
			if _, exists := section["scenario"]; exists {
				cfg.Sim.Scenario = tf.Sim.Scenario
			}
			if _, exists := section["alliance_life_ticks"]; exists {
				cfg.Sim.AllianceLifeTicks = tf.Sim.AllianceLifeTicks
			}
		}
	}
}

func rawSection(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Display.RefreshRateMS < 1 {
		errs = append(errs, fmt.Sprintf("refresh_rate_ms must be positive, got %d", cfg.Display.RefreshRateMS))
	}

	if cfg.Alliance.RequestTicks < 1 {
		errs = append(errs, fmt.Sprintf("alliance request_ticks must be positive, got %d", cfg.Alliance.RequestTicks))
	}
	if cfg.Alliance.AcceptTicks < 1 {
		errs = append(errs, fmt.Sprintf("alliance accept_ticks must be positive, got %d", cfg.Alliance.AcceptTicks))
	}
	if cfg.Alliance.RejectTicks < 1 {
		errs = append(errs, fmt.Sprintf("alliance reject_ticks must be positive, got %d", cfg.Alliance.RejectTicks))
	}
	if cfg.Alliance.TargetTicks < 1 {
		errs = append(errs, fmt.Sprintf("alliance target_ticks must be positive, got %d", cfg.Alliance.TargetTicks))
	}
	if cfg.Alliance.NoticeTicks < 1 {
		errs = append(errs, fmt.Sprintf("alliance notice_ticks must be positive, got %d", cfg.Alliance.NoticeTicks))
	}
	if cfg.Alliance.RosterEvery < 1 {
		errs = append(errs, fmt.Sprintf("alliance roster_every must be positive, got %d", cfg.Alliance.RosterEvery))
	}
	if cfg.Alliance.SweepEvery < 1 {
		errs = append(errs, fmt.Sprintf("alliance sweep_every must be positive, got %d", cfg.Alliance.SweepEvery))
	}

	if cfg.Events.DefaultTicks < 1 {
		errs = append(errs, fmt.Sprintf("events default_ticks must be positive, got %d", cfg.Events.DefaultTicks))
	}
	if cfg.Events.MaxEvents < 1 {
		errs = append(errs, fmt.Sprintf("events max_events must be positive, got %d", cfg.Events.MaxEvents))
	}

	if cfg.Sim.AllianceLifeTicks < 1 {
		errs = append(errs, fmt.Sprintf("sim alliance_life_ticks must be positive, got %d", cfg.Sim.AllianceLifeTicks))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
