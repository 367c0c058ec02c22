package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/config"
)

// minSample is the number of analyses needed before rate alerts fire.
const minSample = 5

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertMockRate       AlertType = "mock_rate"
	AlertLowFeasibility AlertType = "low_feasibility"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a Snapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *Snapshot) []Alert {
	var alerts []Alert
	if snap.Total < minSample {
		return alerts
	}
	now := time.Now().UTC()

	// A high mock share means the analysis API was unreachable.
	if a.cfg.MockRateThreshold > 0 && snap.MockRate > a.cfg.MockRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertMockRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Mock results %.1f%% exceed threshold %.1f%% (%d of %d analyses in last %dh)",
				snap.MockRate*100, a.cfg.MockRateThreshold*100,
				snap.Mock, snap.Total, snap.LookbackHours,
			),
			Details: map[string]any{
				"mock_rate": snap.MockRate,
				"threshold": a.cfg.MockRateThreshold,
				"mock":      snap.Mock,
				"total":     snap.Total,
			},
			Timestamp: now,
		})
	}

	if a.cfg.FeasibleRateFloor > 0 && snap.FeasibleRate < a.cfg.FeasibleRateFloor {
		alerts = append(alerts, Alert{
			Type:     AlertLowFeasibility,
			Severity: "low",
			Message: fmt.Sprintf(
				"Only %.1f%% of analyses are feasible, below %.1f%% (%d of %d in last %dh)",
				snap.FeasibleRate*100, a.cfg.FeasibleRateFloor*100,
				snap.Feasible, snap.Total, snap.LookbackHours,
			),
			Details: map[string]any{
				"feasible_rate": snap.FeasibleRate,
				"floor":         a.cfg.FeasibleRateFloor,
				"feasible":      snap.Feasible,
				"total":         snap.Total,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
