// internal/convert/convert.go
package convert

// Raw register words → physical units.
// Pure functions. No IO.

// Default resistive divider on the supply sense pin.
const (
	DefaultRVcc = 120000.0
	DefaultRGnd = 470.0
)

// adcFullScale is the ADC count the firmware maps to the reference voltage.
const adcFullScale = 930.0

// Divider describes the resistors between supply, ADC pin and ground.
type Divider struct {
	RVcc float64 // supply → pin
	RGnd float64 // pin → 0V
}

// DefaultDivider is the divider fitted on the DL485D4 board.
var DefaultDivider = Divider{RVcc: DefaultRVcc, RGnd: DefaultRGnd}

// Voltage converts a raw ADC reading using the divider.
// Any decimal-point scaling applied by the device is left to the caller.
func (d Divider) Voltage(raw uint16) float64 {
	return float64(raw) * (d.RVcc + d.RGnd) / (d.RGnd * adcFullScale)
}

// Voltage converts a raw ADC reading using the default divider.
func Voltage(raw uint16) float64 {
	return DefaultDivider.Voltage(raw)
}

// MicroTemperature converts the microcontroller's internal sensor reading to °C.
func MicroTemperature(raw uint16) float64 {
	return float64(raw) - 270 + 25
}

// DS18B20Temperature decodes a probe word to °C (resolution 1/16 °C).
// Words at or above 0x8000 are below zero and reported as their magnitude.
func DS18B20Temperature(raw uint16) float64 {
	if raw >= 0x8000 {
		return float64(0xFFFF-raw) / 16
	}
	return float64(raw) / 16
}
