// cmd/dl485ctl/backup.go
package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tamzrod/dl485-dimmer/internal/backupfile"
	"github.com/tamzrod/dl485-dimmer/internal/config"
	"github.com/tamzrod/dl485-dimmer/internal/device"
)

func backup(op device.Operator, d config.DeviceConfig, ch int, path string, log *zap.Logger) error {
	rec, err := device.Backup(op, ch)
	if err != nil {
		return err
	}

	if path == "" {
		path = fmt.Sprintf("ch%d-%d.yaml", ch, d.NodeID)
	}

	f := backupfile.FromRecord(d.NodeID, rec)
	if err := backupfile.Save(path, f); err != nil {
		return err
	}

	failed := rec.Failed()
	log.Info("backup saved",
		zap.String("file", path),
		zap.String("id", f.ID),
		zap.Int("channel", ch),
		zap.Int("failed", len(failed)),
	)
	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d registers unread", errPartial, len(failed), len(rec.Entries))
	}
	return nil
}

func restore(op device.Operator, d config.DeviceConfig, path string, log *zap.Logger) error {
	f, err := backupfile.Load(path)
	if err != nil {
		return err
	}
	if f.NodeID != d.NodeID {
		log.Warn("backup taken from another node",
			zap.Uint8("backup_node", f.NodeID),
			zap.Uint8("target_node", d.NodeID),
		)
	}

	rec, err := f.Record()
	if err != nil {
		return err
	}

	out := device.Restore(op, rec)
	printOutcomes(out)

	log.Info("restore finished",
		zap.String("file", path),
		zap.String("id", f.ID),
		zap.Int("channel", rec.Channel),
		zap.Int("failed", len(out.Failed())),
	)
	return out.Err()
}
