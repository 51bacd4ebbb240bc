package device

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tamzrod/dl485-dimmer/internal/transport"
)

// ---- fake device (register memory behind transport.Client) ----

type op struct {
	kind  string // "read" | "write"
	addr  uint16
	value uint16
}

type fakeDevice struct {
	regs     map[uint16]uint16
	failRead map[uint16]bool
	failWrit map[uint16]bool
	ops      []op
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		regs:     map[uint16]uint16{},
		failRead: map[uint16]bool{},
		failWrit: map[uint16]bool{},
	}
}

func (f *fakeDevice) ReadRegister(addr uint16) (uint16, error) {
	f.ops = append(f.ops, op{kind: "read", addr: addr})
	if f.failRead[addr] {
		return 0, errors.New("read timeout")
	}
	return f.regs[addr], nil
}

func (f *fakeDevice) GenericWrite(req transport.WriteRequest) error {
	word, err := req.Word()
	if err != nil {
		return err
	}
	f.ops = append(f.ops, op{kind: "write", addr: req.Address, value: word})
	if f.failWrit[req.Address] {
		return errors.New("no echo")
	}
	f.regs[req.Address] = word
	return nil
}

func (f *fakeDevice) writes() []op {
	var out []op
	for _, o := range f.ops {
		if o.kind == "write" {
			out = append(out, o)
		}
	}
	return out
}

// newTestController wires a controller through a real paced adapter.
// The returned counter reports how many pacing delays ran.
func newTestController(t *testing.T, dev *fakeDevice) (*Controller, *int) {
	t.Helper()

	delays := 0
	tr, err := transport.NewAdapter(dev, transport.Config{
		Delay: 80 * time.Millisecond,
		Sleep: func(time.Duration) { delays++ },
	})
	require.NoError(t, err)

	c, err := New(tr, Options{Debug: true})
	require.NoError(t, err)
	return c, &delays
}
