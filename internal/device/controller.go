// internal/device/controller.go
package device

import (
	"errors"

	"go.uber.org/zap"

	"github.com/tamzrod/dl485-dimmer/internal/convert"
	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// Transport is what the controller needs from the adapter.
type Transport interface {
	ReadRegister(addr uint16) (uint16, error)
	WriteCommand(addr uint16, value float64, decimals uint8) error
}

// Options configures a Controller.
type Options struct {
	Logger  *zap.Logger
	Debug   bool            // log every transaction
	Divider convert.Divider // zero value means convert.DefaultDivider
}

// Controller drives one DL485D4 node.
// It holds no state between calls beyond its immutable options.
// Each call is one bus transaction; nothing is retried here.
type Controller struct {
	tr      Transport
	log     *zap.Logger
	debug   bool
	divider convert.Divider
}

// New creates a controller over a paced transport.
func New(tr Transport, opts Options) (*Controller, error) {
	if tr == nil {
		return nil, errors.New("device: transport required")
	}

	c := &Controller{
		tr:      tr,
		log:     opts.Logger,
		debug:   opts.Debug,
		divider: opts.Divider,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.divider == (convert.Divider{}) {
		c.divider = convert.DefaultDivider
	}
	return c, nil
}

// ---- single transactions ----

// Read resolves a symbol or register number and reads it.
func (c *Controller) Read(ref string) (uint16, error) {
	addr, err := regmap.Parse(ref)
	if err != nil {
		return 0, err
	}
	return c.ReadAddress(addr)
}

// ReadAddress reads one register.
func (c *Controller) ReadAddress(addr regmap.Address) (uint16, error) {
	v, err := c.tr.ReadRegister(uint16(addr))
	if err != nil {
		c.log.Warn("read failed", zap.Uint16("register", uint16(addr)), zap.Error(err))
		return 0, err
	}
	if c.debug {
		c.log.Debug("read", zap.Uint16("register", uint16(addr)), zap.Uint16("value", v))
	}
	return v, nil
}

// Write resolves a symbol or register number and writes a raw word.
func (c *Controller) Write(ref string, value uint16) error {
	return c.WriteScaled(ref, float64(value), 0)
}

// WriteScaled writes value scaled by 10^decimals.
func (c *Controller) WriteScaled(ref string, value float64, decimals uint8) error {
	addr, err := regmap.Parse(ref)
	if err != nil {
		return err
	}
	return c.WriteAddress(addr, value, decimals)
}

// WriteAddress writes one register. A nil error means the device applied it;
// on error the register keeps its previous value.
func (c *Controller) WriteAddress(addr regmap.Address, value float64, decimals uint8) error {
	if err := c.tr.WriteCommand(uint16(addr), value, decimals); err != nil {
		c.log.Warn("write failed",
			zap.Uint16("register", uint16(addr)),
			zap.Float64("value", value),
			zap.Uint8("decimals", decimals),
			zap.Error(err),
		)
		return err
	}
	if c.debug {
		c.log.Debug("write",
			zap.Uint16("register", uint16(addr)),
			zap.Float64("value", value),
			zap.Uint8("decimals", decimals),
		)
	}
	return nil
}

// Reboot triggers a device reset. The node stops answering while it restarts;
// callers must confirm it is back before issuing more commands.
func (c *Controller) Reboot() error {
	c.log.Info("reboot requested")
	return c.WriteAddress(regmap.RegisterReset, 1, 0)
}

// SetupIO writes an IO type bitmask to the IO's configuration register.
// The device does not report whether the IO supports the mode.
func (c *Controller) SetupIO(io, ioType string) error {
	mask, err := regmap.ResolveIOType(ioType)
	if err != nil {
		return err
	}
	ioAddr, err := regmap.Resolve(io)
	if err != nil {
		return err
	}
	cfgAddr, err := regmap.IOConfigAddress(ioAddr)
	if err != nil {
		return err
	}
	return c.WriteAddress(cfgAddr, float64(mask), 0)
}

// ---- bulk ----

// ResetChannel zeroes a channel's EEPROM block. Check the outcomes for partial failure.
func (c *Controller) ResetChannel(ch int) (Outcomes, error) {
	out, err := Reset(c, ch)
	if err != nil {
		return nil, err
	}
	c.logBulk("reset", ch, out)
	return out, nil
}

// BackupChannel captures a channel's EEPROM block.
func (c *Controller) BackupChannel(ch int) (BackupRecord, error) {
	rec, err := Backup(c, ch)
	if err != nil {
		return BackupRecord{}, err
	}
	if failed := rec.Failed(); len(failed) > 0 {
		c.log.Warn("backup incomplete", zap.Int("channel", ch), zap.Int("failed", len(failed)))
	}
	return rec, nil
}

// RestoreChannel replays a backup in capture order.
func (c *Controller) RestoreChannel(rec BackupRecord) Outcomes {
	out := Restore(c, rec)
	c.logBulk("restore", rec.Channel, out)
	return out
}

func (c *Controller) logBulk(op string, ch int, out Outcomes) {
	failed := out.Failed()
	if len(failed) == 0 {
		c.log.Info(op+" complete", zap.Int("channel", ch), zap.Int("registers", len(out)))
		return
	}
	c.log.Warn(op+" partial",
		zap.Int("channel", ch),
		zap.Int("registers", len(out)),
		zap.Int("failed", len(failed)),
		zap.Error(out.Err()),
	)
}

// ---- conversions ----

// SupplyVoltage reads vin and converts it through the divider.
func (c *Controller) SupplyVoltage() (float64, error) {
	raw, err := c.ReadAddress(regmap.RegisterVin)
	if err != nil {
		return 0, err
	}
	return c.divider.Voltage(raw), nil
}

// MicroTemperature reads the microcontroller's temperature in °C.
func (c *Controller) MicroTemperature() (float64, error) {
	raw, err := c.ReadAddress(regmap.RegisterTempMicro)
	if err != nil {
		return 0, err
	}
	return convert.MicroTemperature(raw), nil
}

// ProbeTemperature reads a DS18B20 attached to an IO, in °C.
func (c *Controller) ProbeTemperature(io string) (float64, error) {
	raw, err := c.Read(io)
	if err != nil {
		return 0, err
	}
	return convert.DS18B20Temperature(raw), nil
}
