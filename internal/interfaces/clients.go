// Package interfaces defines service contracts for Clarity
package interfaces

import (
	"context"

	"github.com/clarityfi/clarity/internal/models"
)

// RiskMetricsClient talks to the historical-data service that computes
// portfolio risk statistics. The service may be slow or unavailable;
// callers must tolerate non-response and fall back to placeholder values.
type RiskMetricsClient interface {
	// CalculateRiskMetrics computes risk metrics for a user's portfolio over
	// a lookback period (e.g. "1y"). The returned metrics carry
	// Source=computed; fallback tagging is the caller's responsibility.
	CalculateRiskMetrics(ctx context.Context, userID, period string) (*models.RiskMetrics, error)
}
