// internal/status/constants.go
package status

// Device health codes reported by the watch loop.

// HealthUnknown represents the state before the first poll.
const HealthUnknown uint16 = 0

// HealthOK represents a device answering every poll.
const HealthOK uint16 = 1

// HealthError represents a device whose last poll failed.
const HealthError uint16 = 2

// SecondsInErrorMax caps the error duration counter; it MUST NOT wrap.
const SecondsInErrorMax uint16 = 65535

// HealthName returns a label for logs.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}
