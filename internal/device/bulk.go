// internal/device/bulk.go
package device

import (
	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// Operator is the single-transaction surface bulk operations are built on.
// *Controller and Retrying both implement it.
type Operator interface {
	ReadAddress(addr regmap.Address) (uint16, error)
	WriteAddress(addr regmap.Address, value float64, decimals uint8) error
}

// Backup reads a channel block in ascending order.
// A failed read is recorded in its slot; the rest are still read.
func Backup(op Operator, ch int) (BackupRecord, error) {
	block, err := regmap.ChannelBlock(ch)
	if err != nil {
		return BackupRecord{}, err
	}

	rec := BackupRecord{
		Channel: ch,
		Entries: make([]BackupEntry, 0, len(block)),
	}
	for _, addr := range block {
		v, err := op.ReadAddress(addr)
		rec.Entries = append(rec.Entries, BackupEntry{Address: addr, Value: v, Err: err})
	}
	return rec, nil
}

// Restore replays entries in record order. Entries without a value are
// skipped and reported with ErrNoValue. No rollback.
func Restore(op Operator, rec BackupRecord) Outcomes {
	out := make(Outcomes, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		if e.Err != nil {
			out = append(out, Outcome{Address: e.Address, Err: ErrNoValue})
			continue
		}
		err := op.WriteAddress(e.Address, float64(e.Value), 0)
		out = append(out, Outcome{Address: e.Address, Err: err})
	}
	return out
}

// Reset writes zero to every register of a channel block, ascending.
// Every address is attempted regardless of earlier failures.
func Reset(op Operator, ch int) (Outcomes, error) {
	block, err := regmap.ChannelBlock(ch)
	if err != nil {
		return nil, err
	}

	out := make(Outcomes, 0, len(block))
	for _, addr := range block {
		out = append(out, Outcome{Address: addr, Err: op.WriteAddress(addr, 0, 0)})
	}
	return out, nil
}
