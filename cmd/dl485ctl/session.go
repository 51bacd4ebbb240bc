// cmd/dl485ctl/session.go
package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/dl485-dimmer/internal/config"
	"github.com/tamzrod/dl485-dimmer/internal/convert"
	"github.com/tamzrod/dl485-dimmer/internal/device"
	"github.com/tamzrod/dl485-dimmer/internal/logging"
	"github.com/tamzrod/dl485-dimmer/internal/transport"
	"github.com/tamzrod/dl485-dimmer/internal/transport/rtu"
)

type session struct {
	cfg  config.DeviceConfig
	ctrl *device.Controller
	log  *zap.Logger
}

// openSessions opens one bus per port and one session per device.
// Devices on the same port share the bus lock.
func openSessions(devs []config.DeviceConfig, log *zap.Logger) ([]session, func() error, error) {
	buses := make(map[string]*rtu.Bus)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	var out []session
	for _, d := range devs {
		dlog := logging.ForDevice(log, d)

		bus, ok := buses[d.Port]
		if !ok {
			rc := rtu.Config{
				Port:     d.Port,
				BaudRate: d.BaudRate,
				Timeout:  time.Duration(d.TimeoutMs) * time.Millisecond,
			}
			if d.Debug {
				rc.Logger = zap.NewStdLog(dlog.Named("rtu"))
			}

			b, err := rtu.Open(rc)
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			buses[d.Port] = b
			closers = append(closers, b.Close)
			bus = b
		}

		tr, err := transport.NewAdapter(bus.Unit(d.NodeID), transport.Config{
			Delay: time.Duration(d.DelayMs) * time.Millisecond,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}

		ctrl, err := device.New(tr, device.Options{
			Logger:  dlog,
			Debug:   d.Debug,
			Divider: convert.Divider{RVcc: d.Divider.RVcc, RGnd: d.Divider.RGnd},
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}

		out = append(out, session{cfg: d, ctrl: ctrl, log: dlog})
	}

	return out, closeAll, nil
}
