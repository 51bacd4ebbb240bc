// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// Conversion kinds.
const (
	ConvertRaw     = "raw"
	ConvertVoltage = "voltage"
	ConvertMicro   = "micro"
	ConvertDS18B20 = "ds18b20"
)

// Probe describes one register to sample and how to convert it.
type Probe struct {
	Ref     string
	Address regmap.Address
	Convert string
}

// Reading is the result of a single probe.
type Reading struct {
	Ref     string
	Address regmap.Address
	Raw     uint16
	Value   float64
	Unit    string // "", "V", "°C"
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Device string
	At     time.Time

	Readings []Reading
	Err      error // non-nil means the poll cycle failed
}
