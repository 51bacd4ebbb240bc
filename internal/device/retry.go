// internal/device/retry.go
package device

import (
	"errors"
	"time"

	"github.com/tamzrod/dl485-dimmer/internal/regmap"
	"github.com/tamzrod/dl485-dimmer/internal/transport"
)

// Retrying wraps an Operator with a caller-chosen retry policy.
// Only transport failures are retried; input errors are returned at once.
// Attempts <= 1 means a single try.
type Retrying struct {
	Op       Operator
	Attempts int
	Pause    time.Duration

	// Sleep is replaced in tests.
	Sleep func(time.Duration)
}

// ReadAddress implements Operator.
func (r Retrying) ReadAddress(addr regmap.Address) (uint16, error) {
	var v uint16
	err := r.do(func() error {
		var err error
		v, err = r.Op.ReadAddress(addr)
		return err
	})
	return v, err
}

// WriteAddress implements Operator.
func (r Retrying) WriteAddress(addr regmap.Address, value float64, decimals uint8) error {
	return r.do(func() error {
		return r.Op.WriteAddress(addr, value, decimals)
	})
}

func (r Retrying) do(fn func() error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && r.Pause > 0 {
			sleep(r.Pause)
		}
		err = fn()
		if err == nil || !errors.Is(err, transport.ErrTransport) {
			return err
		}
	}
	return err
}
