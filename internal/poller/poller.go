// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/dl485-dimmer/internal/convert"
	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// Reader is the one operation the poller needs from a device.
type Reader interface {
	ReadAddress(addr regmap.Address) (uint16, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Device   string
	Interval time.Duration
	Probes   []Probe
	Divider  convert.Divider
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg    Config
	reader Reader
}

// New creates a poller with immutable config.
func New(cfg Config, reader Reader) (*Poller, error) {
	if reader == nil {
		return nil, errors.New("poller: reader required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Probes) == 0 {
		return nil, errors.New("poller: at least one probe required")
	}
	for _, p := range cfg.Probes {
		switch p.Convert {
		case ConvertRaw, ConvertVoltage, ConvertMicro, ConvertDS18B20:
		default:
			return nil, fmt.Errorf("poller: unknown conversion %q", p.Convert)
		}
	}
	if cfg.Divider == (convert.Divider{}) {
		cfg.Divider = convert.DefaultDivider
	}
	return &Poller{cfg: cfg, reader: reader}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		Device: p.cfg.Device,
		At:     time.Now(),
	}

	readings := make([]Reading, 0, len(p.cfg.Probes))

	for _, pr := range p.cfg.Probes {
		raw, err := p.reader.ReadAddress(pr.Address)
		if err != nil {
			res.Err = fmt.Errorf("poller: %s: %w", pr.Ref, err)
			return res
		}
		readings = append(readings, p.convert(pr, raw))
	}

	// Commit only if all reads succeeded
	res.Readings = readings
	return res
}

func (p *Poller) convert(pr Probe, raw uint16) Reading {
	r := Reading{Ref: pr.Ref, Address: pr.Address, Raw: raw, Value: float64(raw)}

	switch pr.Convert {
	case ConvertVoltage:
		r.Value, r.Unit = p.cfg.Divider.Voltage(raw), "V"
	case ConvertMicro:
		r.Value, r.Unit = convert.MicroTemperature(raw), "°C"
	case ConvertDS18B20:
		r.Value, r.Unit = convert.DS18B20Temperature(raw), "°C"
	}
	return r
}
