// Package models defines data structures for Clarity
package models

import (
	"errors"
	"strings"
	"time"
)

// Frequency describes how often an income or expense entry recurs.
// An empty value is treated as monthly.
type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyAnnually  Frequency = "ANNUALLY"
)

// ParseFrequency normalizes a frequency string. Unknown values map to empty
// (treated as monthly downstream).
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToUpper(strings.TrimSpace(s))) {
	case FrequencyMonthly:
		return FrequencyMonthly
	case FrequencyQuarterly:
		return FrequencyQuarterly
	case FrequencyAnnually:
		return FrequencyAnnually
	default:
		return ""
	}
}

// MonthlyFactor returns the multiplier that converts an amount at this
// frequency to its monthly equivalent.
func (f Frequency) MonthlyFactor() float64 {
	switch f {
	case FrequencyQuarterly:
		return 4.0 / 12.0
	case FrequencyAnnually:
		return 1.0 / 12.0
	default:
		// monthly or unset
		return 1.0
	}
}

// Holding represents a portfolio position.
// CurrentPrice and DividendYieldPct may be zero when the source data has no
// quote; value and dividend math treats them as contributing nothing.
type Holding struct {
	UserID          string    `json:"user_id"`
	Ticker          string    `json:"ticker"`
	Shares          float64   `json:"shares"`
	CostBasis       float64   `json:"cost_basis"`         // per-share cost
	CurrentPrice    float64   `json:"current_price"`      // per-share price, 0 when unknown
	DividendYieldPct float64  `json:"dividend_yield_pct"` // annual yield on a 0-100 scale, 0 when unknown
	Sector          string    `json:"sector,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate ensures the holding adheres to domain rules.
func (h *Holding) Validate() error {
	if h.Ticker == "" {
		return errors.New("holding ticker cannot be empty")
	}
	if h.Shares < 0 {
		return errors.New("holding shares cannot be negative")
	}
	if h.CostBasis <= 0 {
		return errors.New("holding cost basis must be positive")
	}
	if h.CurrentPrice < 0 {
		return errors.New("holding current price cannot be negative")
	}
	if h.DividendYieldPct < 0 {
		return errors.New("holding dividend yield cannot be negative")
	}
	return nil
}

// CurrentValue returns shares × current price.
func (h *Holding) CurrentValue() float64 {
	return h.Shares * h.CurrentPrice
}

// TotalCost returns shares × per-share cost basis.
func (h *Holding) TotalCost() float64 {
	return h.Shares * h.CostBasis
}

// AnnualDividend returns the annualized dividend for the position.
func (h *Holding) AnnualDividend() float64 {
	return h.CurrentValue() * h.DividendYieldPct / 100
}

// SectorOrDefault returns the holding's sector, or "Other" when unset.
func (h *Holding) SectorOrDefault() string {
	if h.Sector == "" {
		return "Other"
	}
	return h.Sector
}

// Income represents a recurring income entry.
type Income struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Frequency Frequency `json:"frequency,omitempty"`
	Category  string    `json:"category,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MonthlyEquivalent converts the entry amount to its monthly equivalent.
func (i *Income) MonthlyEquivalent() float64 {
	return i.Amount * i.Frequency.MonthlyFactor()
}

// Expense represents a recurring expense entry.
type Expense struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Frequency Frequency `json:"frequency,omitempty"`
	Category  string    `json:"category,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MonthlyEquivalent converts the entry amount to its monthly equivalent.
func (e *Expense) MonthlyEquivalent() float64 {
	return e.Amount * e.Frequency.MonthlyFactor()
}

// Default tax rates applied when a user has no TaxProfile.
const (
	DefaultEffectiveTaxRate = 0.22
	DefaultMarginalTaxRate  = 0.24
	DefaultStateBracket     = 0.05
)

// TaxProfile holds a user's tax situation. At most one per user.
// Rates are fractions (0.22 = 22%).
type TaxProfile struct {
	UserID        string    `json:"user_id"`
	State         string    `json:"state"`
	EffectiveRate float64   `json:"effective_rate"`
	MarginalRate  float64   `json:"marginal_rate"`
	StateBracket  float64   `json:"state_bracket"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultTaxProfile returns the profile applied when a user has none.
func DefaultTaxProfile(userID string) *TaxProfile {
	return &TaxProfile{
		UserID:        userID,
		EffectiveRate: DefaultEffectiveTaxRate,
		MarginalRate:  DefaultMarginalTaxRate,
		StateBracket:  DefaultStateBracket,
	}
}

// FinancialGoal is a user-defined savings target. Only active goals are
// considered by the planning hub.
type FinancialGoal struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	TargetAmount float64   `json:"target_amount"`
	IsActive     bool      `json:"is_active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate ensures the goal adheres to domain rules.
func (g *FinancialGoal) Validate() error {
	if g.Name == "" {
		return errors.New("goal name cannot be empty")
	}
	if g.TargetAmount <= 0 {
		return errors.New("goal target amount must be positive")
	}
	return nil
}
