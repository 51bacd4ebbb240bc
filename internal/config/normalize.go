// internal/config/normalize.go
package config

import (
	"strings"
)

// Defaults applied by Normalize.
const (
	DefaultBaudRate       = 19200
	DefaultTimeoutMs      = 30
	DefaultDelayMs        = 80
	DefaultPollIntervalMs = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i := range cfg.Devices {
		d := &cfg.Devices[i]

		if d.BaudRate == 0 {
			d.BaudRate = DefaultBaudRate
		}
		if d.TimeoutMs == 0 {
			d.TimeoutMs = DefaultTimeoutMs
		}
		if d.DelayMs == 0 {
			d.DelayMs = DefaultDelayMs
		}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}

	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultPollIntervalMs
	}
	for i := range cfg.Poll.Reads {
		r := &cfg.Poll.Reads[i]
		r.Ref = strings.ToLower(strings.TrimSpace(r.Ref))
		if r.Convert == "" {
			r.Convert = "raw"
		}
	}
}
