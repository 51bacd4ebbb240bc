// internal/transport/adapter.go
package transport

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultDelay is the pause the device needs after every command.
// Shorter pauses make its receiver drop the tail of the next frame.
const DefaultDelay = 80 * time.Millisecond

// Client is the external Modbus RTU client, bound to one node.
type Client interface {
	ReadRegister(addr uint16) (uint16, error)
	GenericWrite(req WriteRequest) error
}

// busLocker is implemented by clients that share a physical port with others.
type busLocker interface {
	Locker() sync.Locker
}

// Config is the adapter's runtime config.
type Config struct {
	// Delay after each transaction. Zero means DefaultDelay.
	Delay time.Duration

	// Locker guards the port. Nil means the client's bus lock if it has one,
	// otherwise a private mutex.
	Locker sync.Locker

	// Sleep is replaced in tests.
	Sleep func(time.Duration)
}

// Adapter issues single transactions and owns the mandatory pacing delay.
// The lock covers request and delay, so nothing else can use the port in the gap.
type Adapter struct {
	client Client
	lock   sync.Locker
	delay  time.Duration
	sleep  func(time.Duration)
}

// NewAdapter wraps a client with pacing and exclusive access.
func NewAdapter(client Client, cfg Config) (*Adapter, error) {
	if client == nil {
		return nil, errors.New("transport: client required")
	}
	if cfg.Delay < 0 {
		return nil, errors.New("transport: delay must be >= 0")
	}

	a := &Adapter{
		client: client,
		lock:   cfg.Locker,
		delay:  cfg.Delay,
		sleep:  cfg.Sleep,
	}
	if a.delay == 0 {
		a.delay = DefaultDelay
	}
	if a.sleep == nil {
		a.sleep = time.Sleep
	}
	if a.lock == nil {
		if bl, ok := client.(busLocker); ok {
			a.lock = bl.Locker()
		} else {
			a.lock = &sync.Mutex{}
		}
	}
	return a, nil
}

// Delay returns the configured pacing delay.
func (a *Adapter) Delay() time.Duration { return a.delay }

// ReadRegister reads one register, then waits the pacing delay.
func (a *Adapter) ReadRegister(addr uint16) (uint16, error) {
	var v uint16
	err := a.exchange("read", addr, func() error {
		var err error
		v, err = a.client.ReadRegister(addr)
		return err
	})
	if err != nil {
		return 0, err
	}
	return v, nil
}

// WriteCommand sends the device's extended FC6 write, then waits the pacing delay.
// A value that cannot be encoded is rejected before touching the bus.
func (a *Adapter) WriteCommand(addr uint16, value float64, decimals uint8) error {
	req := NewWriteRequest(addr, value, decimals)
	if err := req.Validate(); err != nil {
		return err
	}
	return a.exchange("write", addr, func() error {
		return a.client.GenericWrite(req)
	})
}

// exchange runs exactly one transaction under the lock, followed by exactly one delay.
func (a *Adapter) exchange(op string, addr uint16, fn func() error) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	err := guard(fn)
	a.sleep(a.delay)

	if err != nil {
		return &Failure{Op: op, Address: addr, Err: err}
	}
	return nil
}

// guard turns a client panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("client panic: %v", r)
		}
	}()
	return fn()
}
