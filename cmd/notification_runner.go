package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"frotaBack/internal/config"
	"frotaBack/internal/services"
	"frotaBack/internal/timeutil"
)

const (
	notificationCycleTimeout = 5 * time.Minute
	notificationLockKey      = "notifier:cycle:lock"
)

// startNotificationRunner runs the reminder cycle on a fixed interval. The
// Redis lock serializes cycles across instances: whoever wins SetNX runs,
// everyone else skips. Row-level idempotence in the store is the second
// line of defence.
func startNotificationRunner(ctx context.Context, svc *services.NotificationService, rdb *redis.Client, cfg config.Config, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	interval := time.Duration(cfg.Scheduler.IntervalMinutes) * time.Minute
	lockTTL := time.Duration(cfg.Scheduler.LockTTLMinutes) * time.Minute

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, notificationCycleTimeout)
			defer cancel()

			ok, err := rdb.SetNX(runCtx, notificationLockKey, time.Now().Unix(), lockTTL).Result()
			if err != nil {
				errorLog.Printf("notification runner: acquire lock: %v", err)
				return
			}
			if !ok {
				infoLog.Printf("notification runner: cycle already running elsewhere, skipping")
				return
			}
			defer rdb.Del(runCtx, notificationLockKey)

			report, err := svc.RunCycle(runCtx, timeutil.Now())
			if err != nil {
				errorLog.Printf("notification runner: cycle failed: %v", err)
				return
			}
			if report.Created > 0 || report.Sent > 0 || report.Failed > 0 || len(report.Errors) > 0 {
				infoLog.Printf("notification runner: companies=%d skipped=%d created=%d sent=%d failed=%d errors=%d",
					report.CompaniesProcessed, report.CompaniesSkipped, report.Created, report.Sent, report.Failed, len(report.Errors))
			}
			for _, e := range report.Errors {
				errorLog.Printf("notification runner: %s", e)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
