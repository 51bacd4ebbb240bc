// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Devices []DeviceConfig `yaml:"devices"`
	Log     LogConfig      `yaml:"log"`
	Poll    PollConfig     `yaml:"poll"`
}

// ---- DEVICE SESSION ----

type DeviceConfig struct {
	Name      string `yaml:"name"`
	Port      string `yaml:"port"`
	BaudRate  int    `yaml:"baud_rate"`
	NodeID    uint8  `yaml:"node_id"`
	TimeoutMs int    `yaml:"timeout_ms"` // response timeout
	DelayMs   int    `yaml:"delay_ms"`   // pause after every command
	Debug     bool   `yaml:"debug"`

	Divider DividerConfig `yaml:"divider"`
}

// DividerConfig describes the supply sense resistors (ohms).
type DividerConfig struct {
	RVcc float64 `yaml:"r_vcc"`
	RGnd float64 `yaml:"r_gnd"`
}

// ---- LOGGING ----

type LogConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // console, json
	Output     string `yaml:"output"` // stdout, stderr, or a file path
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ---- STATUS POLL ----

type PollConfig struct {
	IntervalMs int          `yaml:"interval_ms"`
	Reads      []ReadConfig `yaml:"reads"`
}

type ReadConfig struct {
	Ref     string `yaml:"ref"`     // symbol or register number
	Convert string `yaml:"convert"` // raw, voltage, micro, ds18b20
}

// Load reads a YAML config file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML config bytes.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// Device returns the named device, or the first one when name is empty.
func (c *Config) Device(name string) (DeviceConfig, error) {
	if len(c.Devices) == 0 {
		return DeviceConfig{}, fmt.Errorf("config: no devices defined")
	}
	if name == "" {
		return c.Devices[0], nil
	}
	for _, d := range c.Devices {
		if d.Name == name {
			return d, nil
		}
	}
	return DeviceConfig{}, fmt.Errorf("config: device %q not found", name)
}
