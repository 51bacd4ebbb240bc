// internal/transport/request.go
package transport

import (
	"errors"
	"fmt"
	"math"
)

// FuncWriteSingleRegister is the only write function code the device accepts.
const FuncWriteSingleRegister uint8 = 6

// ErrValueRange is returned when a scaled value does not fit an unsigned word.
var ErrValueRange = errors.New("transport: value out of register range")

// ErrBadRequest is returned when a WriteRequest deviates from the device framing.
var ErrBadRequest = errors.New("transport: malformed write request")

// WriteRequest is the device's extended write command.
// The firmware expects every field, including the fixed ones.
type WriteRequest struct {
	FunctionCode  uint8
	Address       uint16
	Value         float64
	Decimals      uint8
	RegisterCount uint16
	BitCount      uint16
	Signed        bool
}

// NewWriteRequest builds the only request shape the device understands:
// FC6, one register, zero bits, unsigned.
func NewWriteRequest(addr uint16, value float64, decimals uint8) WriteRequest {
	return WriteRequest{
		FunctionCode:  FuncWriteSingleRegister,
		Address:       addr,
		Value:         value,
		Decimals:      decimals,
		RegisterCount: 1,
		BitCount:      0,
		Signed:        false,
	}
}

// Validate checks the fixed fields and that the value encodes.
func (r WriteRequest) Validate() error {
	switch {
	case r.FunctionCode != FuncWriteSingleRegister:
		return fmt.Errorf("%w: function code %d", ErrBadRequest, r.FunctionCode)
	case r.RegisterCount != 1:
		return fmt.Errorf("%w: register count %d", ErrBadRequest, r.RegisterCount)
	case r.BitCount != 0:
		return fmt.Errorf("%w: bit count %d", ErrBadRequest, r.BitCount)
	case r.Signed:
		return fmt.Errorf("%w: signed values unsupported", ErrBadRequest)
	}
	_, err := r.Word()
	return err
}

// Word returns the register word sent on the wire.
func (r WriteRequest) Word() (uint16, error) {
	return EncodeValue(r.Value, r.Decimals)
}

// EncodeValue scales value by 10^decimals and rounds to the nearest word.
func EncodeValue(value float64, decimals uint8) (uint16, error) {
	scaled := math.Round(value * math.Pow10(int(decimals)))
	if math.IsNaN(scaled) || scaled < 0 || scaled > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %v (decimals=%d)", ErrValueRange, value, decimals)
	}
	return uint16(scaled), nil
}
