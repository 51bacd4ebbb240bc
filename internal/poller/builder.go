// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/dl485-dimmer/internal/config"
	"github.com/tamzrod/dl485-dimmer/internal/convert"
	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// Build constructs a Poller for one device from normalized config.
// No retries, no loops, no semantics.
func Build(d cfg.DeviceConfig, pc cfg.PollConfig, reader Reader) (*Poller, error) {
	probes := make([]Probe, 0, len(pc.Reads))
	for _, r := range pc.Reads {
		addr, err := regmap.Parse(r.Ref)
		if err != nil {
			return nil, err
		}
		probes = append(probes, Probe{
			Ref:     r.Ref,
			Address: addr,
			Convert: r.Convert,
		})
	}

	return New(
		Config{
			Device:   d.Name,
			Interval: time.Duration(pc.IntervalMs) * time.Millisecond,
			Probes:   probes,
			Divider:  convert.Divider{RVcc: d.Divider.RVcc, RGnd: d.Divider.RGnd},
		},
		reader,
	)
}
