package main

import (
	"context"
	"time"

	appmetrics "adFatigue/app/echo-server/metrics"
	"adFatigue/business/fatigue"
	"adFatigue/pkg/config"
	"adFatigue/pkg/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const recomputeTimeout = 30 * time.Minute

type recomputer interface {
	RecomputeActive(ctx context.Context, since time.Time) (int, error)
}

// startRecompute schedules the periodic report refresh. An empty schedule
// disables it.
func startRecompute(svc recomputer, jobs config.JobsConfig) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if jobs.RecomputeCron == "" {
		logger.Info("Recompute job disabled")
		c.Start()
		return c, nil
	}

	lookback := time.Duration(jobs.RecomputeLookbackDays) * 24 * time.Hour
	if _, err := c.AddFunc(jobs.RecomputeCron, func() { runRecompute(svc, lookback) }); err != nil {
		return nil, err
	}

	c.Start()
	logger.Info("Recompute job scheduled", "schedule", jobs.RecomputeCron, "lookback_days", jobs.RecomputeLookbackDays)

	return c, nil
}

func runRecompute(svc recomputer, lookback time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	defer cancel()
	ctx = fatigue.WithTraceID(ctx, uuid.NewString())

	start := time.Now()
	n, err := svc.RecomputeActive(ctx, start.Add(-lookback))
	appmetrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	appmetrics.RecomputeAdsTotal.Add(float64(n))

	if err != nil {
		appmetrics.RecomputeFailures.Inc()
		logger.Error("fatigue_recompute_failed",
			"trace_id", fatigue.TraceIDFromContext(ctx),
			"recomputed", n,
			err,
		)
		return
	}

	logger.Info("fatigue_recompute_done",
		"trace_id", fatigue.TraceIDFromContext(ctx),
		"recomputed", n,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}
