// internal/status/snapshot.go
package status

// Snapshot is the current device health.
// It contains no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastError      string
	SecondsInError uint16
}

// Observe folds one poll outcome into the snapshot.
// It reports whether anything changed.
func (s *Snapshot) Observe(err error) bool {
	changed := false

	if err == nil {
		// Recovery / OK
		if s.Health != HealthOK {
			s.Health = HealthOK
			changed = true
		}
		if s.LastError != "" {
			s.LastError = ""
			changed = true
		}
		if s.SecondsInError != 0 {
			s.SecondsInError = 0
			changed = true
		}
		return changed
	}

	if s.Health != HealthError {
		s.Health = HealthError
		changed = true
	}
	if msg := err.Error(); s.LastError != msg {
		s.LastError = msg
		changed = true
	}

	// NOTE: seconds_in_error increments on Tick only.
	return changed
}

// Tick advances the error duration by one second while not OK.
// It reports whether the counter moved.
func (s *Snapshot) Tick() bool {
	if s.Health == HealthOK || s.SecondsInError >= SecondsInErrorMax {
		return false
	}
	s.SecondsInError++
	return true
}
