// internal/transport/rtu/client.go
package rtu

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/dl485-dimmer/internal/transport"
)

// Line settings fixed by the device.
const (
	dataBits = 8
	parity   = "N"
	stopBits = 1
)

// DefaultTimeout is short on purpose: the device answers quickly and
// a long timeout makes it lose the last character.
const DefaultTimeout = 30 * time.Millisecond

// Config is minimal serial config.
type Config struct {
	Port     string
	BaudRate int
	Timeout  time.Duration

	// Logger receives goburrow's frame dumps. Nil disables them.
	Logger *log.Logger
}

// Bus is one open serial port.
// Units on the same bus share its lock because each request mutates SlaveId.
type Bus struct {
	mu       sync.Mutex
	handler  *modbus.RTUClientHandler
	client   modbus.Client
	setSlave func(id byte)
}

// Open connects the serial port (8N1).
func Open(cfg Config) (*Bus, error) {
	if cfg.Port == "" {
		return nil, errors.New("rtu: port required")
	}
	if cfg.BaudRate <= 0 {
		return nil, errors.New("rtu: baud rate must be > 0")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	h := modbus.NewRTUClientHandler(cfg.Port)
	h.BaudRate = cfg.BaudRate
	h.DataBits = dataBits
	h.Parity = parity
	h.StopBits = stopBits
	h.Timeout = cfg.Timeout
	h.Logger = cfg.Logger

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("rtu: open %s: %w", cfg.Port, err)
	}

	b := newBus(modbus.NewClient(h), func(id byte) { h.SlaveId = id })
	b.handler = h
	return b, nil
}

func newBus(client modbus.Client, setSlave func(id byte)) *Bus {
	return &Bus{client: client, setSlave: setSlave}
}

// Close releases the serial handle.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handler == nil {
		return nil
	}
	return b.handler.Close()
}

// Unit binds the bus to one node address.
func (b *Bus) Unit(id uint8) *Unit {
	return &Unit{bus: b, id: id}
}

// Unit implements transport.Client for one node.
// Calls must run under Locker(); transport.Adapter takes it automatically.
type Unit struct {
	bus *Bus
	id  uint8
}

// Locker returns the shared bus lock.
func (u *Unit) Locker() sync.Locker { return &u.bus.mu }

// ReadRegister reads one holding register (FC3).
func (u *Unit) ReadRegister(addr uint16) (uint16, error) {
	u.bus.setSlave(u.id)

	data, err := u.bus.client.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, err
	}
	if len(data) != 2 {
		return 0, fmt.Errorf("rtu: read register %d: got %d bytes, want 2", addr, len(data))
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

// GenericWrite sends the extended write. On the wire it is a plain FC6
// carrying the scaled word; the extra fields are checked, not sent.
func (u *Unit) GenericWrite(req transport.WriteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	word, err := req.Word()
	if err != nil {
		return err
	}

	u.bus.setSlave(u.id)

	// goburrow verifies the echoed address and value.
	_, err = u.bus.client.WriteSingleRegister(req.Address, word)
	return err
}
