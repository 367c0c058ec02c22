package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/config"
)

// CheckResult is the outcome of one check pass.
type CheckResult struct {
	Snapshot *Snapshot `json:"snapshot"`
	Alerts   []Alert   `json:"alerts"`
	Sent     int       `json:"sent"`
}

// Checker collects a snapshot, evaluates it and sends any alerts raised,
// once or on an interval.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	cfg       config.MonitoringConfig
}

// NewChecker creates an alert checker.
func NewChecker(collector *Collector, alerter *Alerter, cfg config.MonitoringConfig) *Checker {
	return &Checker{collector: collector, alerter: alerter, cfg: cfg}
}

// Check runs one collect, evaluate and send pass.
func (c *Checker) Check(ctx context.Context) (*CheckResult, error) {
	snap, err := c.collector.Collect(ctx, c.cfg.LookbackHours)
	if err != nil {
		return nil, err
	}
	alerts := c.alerter.Evaluate(snap)
	return &CheckResult{
		Snapshot: snap,
		Alerts:   alerts,
		Sent:     c.alerter.SendAlerts(ctx, alerts),
	}, nil
}

// Run checks immediately and then on every interval until ctx is cancelled.
func (c *Checker) Run(ctx context.Context, onResult func(*CheckResult)) {
	interval := time.Duration(c.cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("starting alert checker",
		zap.Duration("interval", interval),
		zap.Int("lookback_hours", c.cfg.LookbackHours),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := c.Check(ctx)
		switch {
		case err != nil:
			log.Error("monitoring: check failed", zap.Error(err))
		default:
			log.Info("monitoring: check complete",
				zap.Int("analyses", res.Snapshot.Total),
				zap.Int("alerts_triggered", len(res.Alerts)),
				zap.Int("alerts_sent", res.Sent),
			)
			if onResult != nil {
				onResult(res)
			}
		}

		select {
		case <-ctx.Done():
			log.Info("alert checker stopped")
			return
		case <-ticker.C:
		}
	}
}
