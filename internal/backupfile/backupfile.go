// internal/backupfile/backupfile.go
package backupfile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/dl485-dimmer/internal/device"
	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

// Version of the on-disk layout.
const Version = 1

// File is the on-disk form of one channel backup.
type File struct {
	Version   int       `yaml:"version"`
	ID        string    `yaml:"id"`
	NodeID    uint8     `yaml:"node_id"`
	Channel   int       `yaml:"channel"`
	CreatedAt time.Time `yaml:"created_at"`
	Entries   []Entry   `yaml:"entries"`
}

// Entry is one register. Error is set when the read failed; Value is then unused.
type Entry struct {
	Address uint16 `yaml:"address"`
	Value   uint16 `yaml:"value"`
	Error   string `yaml:"error,omitempty"`
}

// FromRecord converts a captured record for storage.
func FromRecord(node uint8, rec device.BackupRecord) File {
	f := File{
		Version:   Version,
		ID:        uuid.NewString(),
		NodeID:    node,
		Channel:   rec.Channel,
		CreatedAt: time.Now().UTC(),
		Entries:   make([]Entry, 0, len(rec.Entries)),
	}
	for _, e := range rec.Entries {
		fe := Entry{Address: uint16(e.Address), Value: e.Value}
		if e.Err != nil {
			fe.Value = 0
			fe.Error = e.Err.Error()
		}
		f.Entries = append(f.Entries, fe)
	}
	return f
}

// Record converts back. Failed entries carry device.ErrNoValue.
func (f File) Record() (device.BackupRecord, error) {
	if f.Version != Version {
		return device.BackupRecord{}, fmt.Errorf("backupfile: unsupported version %d", f.Version)
	}
	if _, err := uuid.Parse(f.ID); err != nil {
		return device.BackupRecord{}, fmt.Errorf("backupfile: bad id: %w", err)
	}

	rec := device.BackupRecord{
		Channel: f.Channel,
		Entries: make([]device.BackupEntry, 0, len(f.Entries)),
	}
	for _, e := range f.Entries {
		be := device.BackupEntry{Address: regmap.Address(e.Address), Value: e.Value}
		if e.Error != "" {
			be.Err = fmt.Errorf("%w: %s", device.ErrNoValue, e.Error)
		}
		rec.Entries = append(rec.Entries, be)
	}

	if err := rec.Validate(); err != nil {
		return device.BackupRecord{}, fmt.Errorf("backupfile: %w", err)
	}
	return rec, nil
}

// Save writes a backup as YAML.
func Save(path string, f File) error {
	if path == "" {
		return errors.New("backupfile: path required")
	}
	b, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("backupfile: encode: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// Load reads a YAML backup.
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("backupfile: decode: %w", err)
	}
	return f, nil
}
