// internal/regmap/regmap.go
package regmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownSymbol  = errors.New("regmap: unknown symbol")
	ErrUnknownIOType  = errors.New("regmap: unknown io type")
	ErrInvalidChannel = errors.New("regmap: invalid channel")
	ErrNotIO          = errors.New("regmap: address is not a digital io")
)

// symbols is the complete name table, keyed by lower-case name.
var symbols = buildSymbols()

func buildSymbols() map[string]Address {
	m := map[string]Address{
		"general":    IOMaster,
		"master":     IOMaster,
		"reset":      RegisterReset,
		"vin":        RegisterVin,
		"temp_micro": RegisterTempMicro,
	}

	for io := IOFirst; io <= IOLast; io++ {
		m[fmt.Sprintf("io%d", io)] = io
	}

	for ch := 1; ch <= Channels; ch++ {
		n := Address(ch)
		m[fmt.Sprintf("out%d", ch)] = OutRampBase + n
		m[fmt.Sprintf("out%d_i", ch)] = OutImmediateBase + n
		m[fmt.Sprintf("out%d_ee", ch)] = OutRampEEBase + n
		m[fmt.Sprintf("out%d_i_ee", ch)] = OutImmediateEEBase + n
		m[fmt.Sprintf("out%d_value", ch)] = blockStart(ch) + BlockValueOffset
	}

	return m
}

// ioTypes maps configuration modes to the IO config bitmask.
var ioTypes = map[string]byte{
	"DIGITAL_OUT":          0b00000001,
	"DIGITAL_OUT_INVERTED": 0b10000001,
	"DIGITAL_IN":           0b00000000,
	"DIGITAL_IN_PULLUP":    0b01000000,
	"ANALOG_IN":            0b00000010,
	"DS18B20":              0b00000100,
}

// Resolve returns the register for a symbolic name (case-insensitive).
func Resolve(name string) (Address, error) {
	a, ok := symbols[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}
	return a, nil
}

// Parse accepts either a symbol or a decimal register number.
func Parse(ref string) (Address, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.ParseUint(ref, 10, 16); err == nil {
		return Address(n), nil
	}
	return Resolve(ref)
}

// ResolveIOType returns the configuration bitmask for an IO type (case-insensitive).
func ResolveIOType(name string) (byte, error) {
	b, ok := ioTypes[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIOType, name)
	}
	return b, nil
}

// IOConfigAddress returns the configuration register of a digital IO.
func IOConfigAddress(io Address) (Address, error) {
	if io < IOFirst || io > IOLast {
		return 0, fmt.Errorf("%w: %d", ErrNotIO, io)
	}
	return io + IOConfigOffset, nil
}

// ChannelBlock returns the 32 EEPROM block registers of a channel, ascending.
func ChannelBlock(ch int) ([]Address, error) {
	if ch < 1 || ch > Channels {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidChannel, ch, Channels)
	}

	start := blockStart(ch)
	out := make([]Address, BlockSize)
	for i := range out {
		out[i] = start + Address(i)
	}
	return out, nil
}

// Symbols returns every recognised name, for help output and tests.
func Symbols() map[string]Address {
	out := make(map[string]Address, len(symbols))
	for k, v := range symbols {
		out[k] = v
	}
	return out
}

// IOTypes returns every recognised IO type name.
func IOTypes() map[string]byte {
	out := make(map[string]byte, len(ioTypes))
	for k, v := range ioTypes {
		out[k] = v
	}
	return out
}

func blockStart(ch int) Address {
	return BlockBase + BlockStride*Address(ch)
}
