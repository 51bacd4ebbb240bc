// internal/device/types.go
package device

import (
	"errors"
	"fmt"

	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// ErrNoValue marks a backup entry whose read failed; it is never written back.
var ErrNoValue = errors.New("device: backup entry has no value")

// Outcome is the result of one transaction inside a bulk operation.
type Outcome struct {
	Address regmap.Address
	Err     error
}

// Outcomes is ordered as issued.
type Outcomes []Outcome

// Failed returns the outcomes that did not apply.
func (o Outcomes) Failed() Outcomes {
	var out Outcomes
	for _, x := range o {
		if x.Err != nil {
			out = append(out, x)
		}
	}
	return out
}

// Err joins every per-address failure, or returns nil.
func (o Outcomes) Err() error {
	var errs []error
	for _, x := range o {
		if x.Err != nil {
			errs = append(errs, fmt.Errorf("register %d: %w", x.Address, x.Err))
		}
	}
	return errors.Join(errs...)
}

// BackupEntry is one captured register. Err is set when the read failed,
// in which case Value is meaningless.
type BackupEntry struct {
	Address regmap.Address
	Value   uint16
	Err     error
}

// BackupRecord is one channel block in capture order.
// Entries are position- and address-dependent EEPROM fields.
type BackupRecord struct {
	Channel int
	Entries []BackupEntry
}

// Failed returns the entries whose read failed.
func (r BackupRecord) Failed() []BackupEntry {
	var out []BackupEntry
	for _, e := range r.Entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// Complete reports whether every register of the block was captured.
func (r BackupRecord) Complete() bool {
	return len(r.Entries) == regmap.BlockSize && len(r.Failed()) == 0
}

// Validate checks that the record covers exactly the channel's block in order.
func (r BackupRecord) Validate() error {
	block, err := regmap.ChannelBlock(r.Channel)
	if err != nil {
		return err
	}
	if len(r.Entries) != len(block) {
		return fmt.Errorf("device: backup has %d entries, want %d", len(r.Entries), len(block))
	}
	for i, e := range r.Entries {
		if e.Address != block[i] {
			return fmt.Errorf("device: backup entry %d has address %d, want %d", i, e.Address, block[i])
		}
	}
	return nil
}
