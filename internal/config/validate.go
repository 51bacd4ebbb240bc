// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// Convert kinds accepted by poll reads.
var convertKinds = map[string]bool{
	"":        true,
	"raw":     true,
	"voltage": true,
	"micro":   true,
	"ds18b20": true,
}

var logLevels = map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are allowed where Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	if len(cfg.Devices) == 0 {
		return fmt.Errorf("config: at least one device required")
	}

	// ------------------------------------------------------------
	// DEVICE SESSIONS
	// ------------------------------------------------------------

	names := make(map[string]bool)

	// key = port | node_id
	owners := make(map[string]string)

	for i, d := range cfg.Devices {
		label := d.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		if d.Name != "" {
			if names[d.Name] {
				return fmt.Errorf("device %q: duplicate name", d.Name)
			}
			names[d.Name] = true
		}

		if d.Port == "" {
			return fmt.Errorf("device %s: port required", label)
		}
		if d.BaudRate < 0 {
			return fmt.Errorf("device %s: baud_rate must be > 0", label)
		}
		// 0 is broadcast, 248+ reserved
		if d.NodeID == 0 || d.NodeID > 247 {
			return fmt.Errorf("device %s: node_id must be 1..247", label)
		}
		if d.TimeoutMs < 0 {
			return fmt.Errorf("device %s: timeout_ms must be >= 0", label)
		}
		if d.DelayMs < 0 {
			return fmt.Errorf("device %s: delay_ms must be >= 0", label)
		}
		if d.Divider.RVcc < 0 || d.Divider.RGnd < 0 {
			return fmt.Errorf("device %s: divider resistors must be >= 0", label)
		}
		if (d.Divider.RVcc == 0) != (d.Divider.RGnd == 0) {
			return fmt.Errorf("device %s: divider needs both r_vcc and r_gnd", label)
		}

		key := fmt.Sprintf("%s|%d", d.Port, d.NodeID)
		if prev, exists := owners[key]; exists {
			return fmt.Errorf(
				"node collision: port=%s node_id=%d used by devices %s and %s",
				d.Port, d.NodeID, prev, label,
			)
		}
		owners[key] = label
	}

	// Devices sharing a port share one line; the line settings must agree.
	baud := make(map[string]int)
	for _, d := range cfg.Devices {
		rate := d.BaudRate
		if rate == 0 {
			rate = DefaultBaudRate
		}
		if prev, ok := baud[d.Port]; ok && prev != rate {
			return fmt.Errorf("port %s: conflicting baud_rate %d and %d", d.Port, prev, rate)
		}
		baud[d.Port] = rate
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	if !logLevels[cfg.Log.Level] {
		return fmt.Errorf("log: invalid level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log: invalid format %q", cfg.Log.Format)
	}

	// ------------------------------------------------------------
	// STATUS POLL
	// ------------------------------------------------------------

	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0")
	}
	for _, r := range cfg.Poll.Reads {
		if _, err := regmap.Parse(r.Ref); err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if !convertKinds[r.Convert] {
			return fmt.Errorf("poll: ref %q: unknown convert %q", r.Ref, r.Convert)
		}
	}

	return nil
}
