// internal/regmap/constants.go
package regmap

// DL485D4 address space.
// These values are the firmware protocol and MUST NOT be configurable.

// Address is one 16-bit register key in the device address space.
type Address uint16

// ---- DIGITAL IO ----

// IOFirst..IOLast are the digital IO status registers (io1..io6).
const (
	IOFirst Address = 1
	IOLast  Address = 6
)

// IOMaster is io5, also reachable as "general" and "master".
const IOMaster Address = 5

// IOConfigOffset is added to an IO address to reach its configuration register.
const IOConfigOffset Address = 100

// ---- OUTPUT CHANNELS ----

// Channels is the number of dimmer outputs.
const Channels = 4

// Write-target bases; channel N lives at base+N.
const (
	OutRampBase        Address = 10 // ramped
	OutImmediateBase   Address = 20 // immediate
	OutRampEEBase      Address = 30 // ramped, persisted to EEPROM
	OutImmediateEEBase Address = 40 // immediate, persisted to EEPROM
)

// ---- SYSTEM ----

const (
	RegisterReset     Address = 97
	RegisterVin       Address = 98
	RegisterTempMicro Address = 99
)

// ---- CHANNEL EEPROM BLOCK ----

// BlockBase is the start of channel 0's block; channel N starts at BlockBase+BlockStride*N.
const (
	BlockBase   Address = 1000
	BlockStride Address = 100
)

// BlockSize is the number of registers in one channel block.
const BlockSize = 32

// BlockValueOffset is the slot holding the channel's last commanded value.
const BlockValueOffset Address = 2
