// cmd/dl485ctl/watch.go
package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/dl485-dimmer/internal/config"
	"github.com/tamzrod/dl485-dimmer/internal/poller"
	"github.com/tamzrod/dl485-dimmer/internal/status"
)

// watch polls every configured device until ctx is done.
func watch(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if len(cfg.Poll.Reads) == 0 {
		return errors.New("watch: no poll reads configured")
	}

	sessions, closeAll, err := openSessions(cfg.Devices, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeAll() }()

	done := make(chan struct{}, len(sessions))

	for _, s := range sessions {
		p, err := poller.Build(s.cfg, cfg.Poll, s.ctrl)
		if err != nil {
			return err
		}

		out := make(chan poller.PollResult)
		go p.Run(ctx, out)

		go func(s session) {
			defer func() { done <- struct{}{} }()
			orchestrate(ctx, s.log, out)
		}(s)
	}

	for range sessions {
		<-done
	}
	return nil
}

// orchestrate owns one device's health snapshot and a 1Hz error clock.
func orchestrate(ctx context.Context, log *zap.Logger, in <-chan poller.PollResult) {
	var snap status.Snapshot

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			if snap.Observe(res.Err) {
				log.Info("health changed",
					zap.String("health", status.HealthName(snap.Health)),
					zap.String("last_error", snap.LastError),
				)
			}
			if res.Err != nil {
				continue
			}

			fields := make([]zap.Field, 0, len(res.Readings))
			for _, r := range res.Readings {
				fields = append(fields, zap.Float64(r.Ref, r.Value))
			}
			log.Info("poll", fields...)

		case <-secTicker.C:
			if snap.Tick() && snap.SecondsInError%10 == 0 {
				log.Warn("device still in error", zap.Uint16("seconds_in_error", snap.SecondsInError))
			}
		}
	}
}
