package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Hub identifies one of the five dashboard hub view models.
type Hub string

const (
	HubIncome            Hub = "income"
	HubPerformance       Hub = "performance"
	HubPortfolioStrategy Hub = "portfolio-strategy"
	HubTaxStrategy       Hub = "tax-strategy"
	HubFinancialPlanning Hub = "financial-planning"
)

// AllHubs lists every hub in display order.
var AllHubs = []Hub{
	HubIncome,
	HubPerformance,
	HubPortfolioStrategy,
	HubTaxStrategy,
	HubFinancialPlanning,
}

// ParseHub validates a hub name from a request path.
func ParseHub(s string) (Hub, error) {
	for _, h := range AllHubs {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown hub '%s'", s)
}

// HubSnapshot is the persisted form of a hub view model: the last successful
// computation, stored as JSON keyed by hub name. Manual marks an
// operator-written override rather than a computed result.
type HubSnapshot struct {
	Hub        Hub             `json:"hub"`
	Payload    json.RawMessage `json:"payload"`
	Manual     bool            `json:"manual"`
	ComputedAt time.Time       `json:"computed_at"`
}

// NewHubSnapshot marshals a view model into a snapshot.
func NewHubSnapshot(hub Hub, payload any, manual bool) (*HubSnapshot, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s hub payload: %w", hub, err)
	}
	return &HubSnapshot{
		Hub:        hub,
		Payload:    data,
		Manual:     manual,
		ComputedAt: time.Now().UTC(),
	}, nil
}

// DecodeSnapshot unmarshals a snapshot payload into a view model.
func DecodeSnapshot[T any](s *HubSnapshot) (*T, error) {
	var out T
	if err := json.Unmarshal(s.Payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s hub payload: %w", s.Hub, err)
	}
	return &out, nil
}

// IsFresh reports whether the snapshot is younger than ttl.
func (s *HubSnapshot) IsFresh(ttl time.Duration) bool {
	return time.Since(s.ComputedAt) < ttl
}

// --- Income hub ---

// ExpenseMilestone is a fixed coverage checkpoint: whether monthly dividend
// income alone covers a household expense bucket.
type ExpenseMilestone struct {
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold"` // monthly dividend income needed
	Covered   bool    `json:"covered"`
}

// IncomeHubData is the income dashboard card view model.
type IncomeHubData struct {
	MonthlyDividendIncome float64            `json:"monthly_dividend_income"`
	GrossMonthly          float64            `json:"gross_monthly"`
	TaxOwed               float64            `json:"tax_owed"`
	NetMonthly            float64            `json:"net_monthly"`
	MonthlyExpenses       float64            `json:"monthly_expenses"`
	AvailableToReinvest   float64            `json:"available_to_reinvest"`
	AboveZeroLine         bool               `json:"above_zero_line"`
	ExpenseMilestones     []ExpenseMilestone `json:"expense_milestones"`
	ComputedAt            time.Time          `json:"computed_at"`
}

// DefaultIncomeHubData returns the documented zero-value income view model.
func DefaultIncomeHubData() *IncomeHubData {
	return &IncomeHubData{
		ExpenseMilestones: []ExpenseMilestone{},
		ComputedAt:        time.Now().UTC(),
	}
}

// --- Performance hub ---

// HoldingPerformance is the per-position slice of the performance card.
type HoldingPerformance struct {
	Ticker         string  `json:"ticker"`
	Shares         float64 `json:"shares"`
	CurrentValue   float64 `json:"current_value"`
	CostBasis      float64 `json:"cost_basis"` // total position cost
	AnnualDividend float64 `json:"annual_dividend"`
	YieldPct       float64 `json:"yield_pct"`
	ReturnPct      float64 `json:"return_pct"`
	WeightPct      float64 `json:"weight_pct"`
}

// PerformanceHubData is the performance dashboard card view model.
type PerformanceHubData struct {
	PortfolioValue   float64              `json:"portfolio_value"`
	SPYPrice         float64              `json:"spy_price"`
	TotalReturnPct   float64              `json:"total_return_pct"`
	DividendYieldPct float64              `json:"dividend_yield_pct"` // value-weighted average
	MonthlyDividends float64              `json:"monthly_dividends"`
	YearlyDividends  float64              `json:"yearly_dividends"`
	SPYComparisonPct float64              `json:"spy_comparison_pct"`
	Holdings         []HoldingPerformance `json:"holdings"`
	ComputedAt       time.Time            `json:"computed_at"`
}

// DefaultPerformanceHubData returns the documented zero-value performance view model.
func DefaultPerformanceHubData(spyPrice float64) *PerformanceHubData {
	return &PerformanceHubData{
		SPYPrice:   spyPrice,
		Holdings:   []HoldingPerformance{},
		ComputedAt: time.Now().UTC(),
	}
}

// --- Portfolio strategy hub ---

// HoldingAllocation is the per-position slice of the strategy card.
type HoldingAllocation struct {
	Ticker       string  `json:"ticker"`
	Sector       string  `json:"sector"`
	CurrentValue float64 `json:"current_value"`
	WeightPct    float64 `json:"weight_pct"`
}

// SectorAllocation represents one sector's share of portfolio value.
type SectorAllocation struct {
	Sector    string   `json:"sector"`
	Value     float64  `json:"value"`
	WeightPct float64  `json:"weight_pct"`
	Holdings  []string `json:"holdings"`
}

// RiskMetricsSource tags where the risk metrics came from.
type RiskMetricsSource string

const (
	RiskSourceComputed RiskMetricsSource = "computed"
	RiskSourceFallback RiskMetricsSource = "fallback"
)

// RiskMetrics holds portfolio risk statistics. Source records whether the
// historical-data service computed them or the fixed fallback was used, so
// degraded results stay observable.
type RiskMetrics struct {
	Beta           float64           `json:"beta"`
	VolatilityPct  float64           `json:"volatility_pct"`
	SharpeRatio    float64           `json:"sharpe_ratio"`
	MaxDrawdownPct float64           `json:"max_drawdown_pct"`
	Source         RiskMetricsSource `json:"source"`
	FallbackReason string            `json:"fallback_reason,omitempty"`
}

// StrategyStatus labels a strategy catalog entry.
type StrategyStatus string

const (
	StrategyStatusActive    StrategyStatus = "active"
	StrategyStatusSuggested StrategyStatus = "suggested"
)

// StrategyEntry is a named portfolio strategy with a rule-driven status.
type StrategyEntry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      StrategyStatus `json:"status"`
}

// PortfolioStrategyHubData is the portfolio strategy dashboard card view model.
type PortfolioStrategyHubData struct {
	Holdings         []HoldingAllocation `json:"holdings"`
	SectorAllocation []SectorAllocation  `json:"sector_allocation"`
	RiskMetrics      RiskMetrics         `json:"risk_metrics"`
	Strategies       []StrategyEntry     `json:"strategies"`
	ComputedAt       time.Time           `json:"computed_at"`
}

// DefaultPortfolioStrategyHubData returns the documented zero-value strategy view model.
func DefaultPortfolioStrategyHubData() *PortfolioStrategyHubData {
	return &PortfolioStrategyHubData{
		Holdings:         []HoldingAllocation{},
		SectorAllocation: []SectorAllocation{},
		Strategies:       []StrategyEntry{},
		ComputedAt:       time.Now().UTC(),
	}
}

// --- Tax strategy hub ---

// TaxStrategy is one tax-saving strategy with its heuristic savings estimate.
type TaxStrategy struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	EstimatedSavings float64 `json:"estimated_savings"`
}

// TaxStrategyHubData is the tax strategy dashboard card view model.
type TaxStrategyHubData struct {
	CurrentLocation  string        `json:"current_location"`
	TaxRate          float64       `json:"tax_rate"` // effective rate, fraction
	Strategies       []TaxStrategy `json:"strategies"`
	PotentialSavings float64       `json:"potential_savings"`
	ComputedAt       time.Time     `json:"computed_at"`
}

// DefaultTaxStrategyHubData returns the documented zero-value tax view model.
func DefaultTaxStrategyHubData() *TaxStrategyHubData {
	return &TaxStrategyHubData{
		Strategies: []TaxStrategy{},
		ComputedAt: time.Now().UTC(),
	}
}

// --- Financial planning hub ---

// FireTargetType names a FIRE variant.
type FireTargetType string

const (
	FireTypeLean        FireTargetType = "lean"
	FireTypeTraditional FireTargetType = "traditional"
	FireTypeFat         FireTargetType = "fat"
	FireTypeCoast       FireTargetType = "coast"
)

// YearsUnreachable is the sentinel returned when a years-to-target formula
// has no defined answer (zero portfolio value, zero expected growth).
const YearsUnreachable = 999.0

// FireTarget is one FIRE variant's target and progress.
type FireTarget struct {
	Type          FireTargetType `json:"type"`
	TargetValue   float64        `json:"target_value"`
	ProgressPct   float64        `json:"progress_pct"`
	YearsToTarget float64        `json:"years_to_target"`
}

// Milestone is a fixed (or goal-derived) dollar checkpoint.
type Milestone struct {
	Name       string  `json:"name"`
	Target     float64 `json:"target"`
	Percentage float64 `json:"percentage"` // clamped to [0,100]
	Completed  bool    `json:"completed"`
}

// ProjectionPoint is one year of the compounding projection series.
type ProjectionPoint struct {
	Year               int     `json:"year"`
	Value              float64 `json:"value"`
	AnnualDividends    float64 `json:"annual_dividends"`
	AnnualContribution float64 `json:"annual_contribution"`
}

// FinancialPlanningHubData is the planning dashboard card view model.
type FinancialPlanningHubData struct {
	FireTargets []FireTarget      `json:"fire_targets"`
	Milestones  []Milestone       `json:"milestones"`
	Projections []ProjectionPoint `json:"projections"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// DefaultFinancialPlanningHubData returns the documented zero-value planning view model.
func DefaultFinancialPlanningHubData() *FinancialPlanningHubData {
	return &FinancialPlanningHubData{
		FireTargets: []FireTarget{},
		Milestones:  []Milestone{},
		Projections: []ProjectionPoint{},
		ComputedAt:  time.Now().UTC(),
	}
}
