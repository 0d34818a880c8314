package planning

import (
	"context"
	"math"
	"testing"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/models"
	"github.com/clarityfi/clarity/internal/storage/memory"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func fireTarget(t *testing.T, data *models.FinancialPlanningHubData, typ models.FireTargetType) models.FireTarget {
	t.Helper()
	for _, ft := range data.FireTargets {
		if ft.Type == typ {
			return ft
		}
	}
	t.Fatalf("missing fire target %s", typ)
	return models.FireTarget{}
}

func TestComputeFireTargetsMultiples(t *testing.T) {
	market := common.NewDefaultConfig().Market
	holdings := []*models.Holding{
		{Ticker: "SCHD", Shares: 1000, CostBasis: 80, CurrentPrice: 100, DividendYieldPct: 4}, // 100k
	}
	expenses := []*models.Expense{
		{ID: "e1", Amount: 4000, Frequency: models.FrequencyMonthly}, // 48k/yr
	}

	data := ComputeFinancialPlanningHub(holdings, expenses, nil, market)

	if !approxEqual(fireTarget(t, data, models.FireTypeLean).TargetValue, 48000*20, 1e-6) {
		t.Error("unexpected lean target")
	}
	if !approxEqual(fireTarget(t, data, models.FireTypeTraditional).TargetValue, 48000*25, 1e-6) {
		t.Error("unexpected traditional target")
	}
	if !approxEqual(fireTarget(t, data, models.FireTypeFat).TargetValue, 48000*30, 1e-6) {
		t.Error("unexpected fat target")
	}

	// Linear model: gap / (current × growth). Traditional: (1.2M−100k)/(100k×0.07).
	trad := fireTarget(t, data, models.FireTypeTraditional)
	if !approxEqual(trad.YearsToTarget, 1100000/(100000*0.07), 1e-6) {
		t.Errorf("unexpected traditional years to target: %.2f", trad.YearsToTarget)
	}
	if !approxEqual(trad.ProgressPct, 100000.0/1200000.0*100, 1e-6) {
		t.Errorf("unexpected traditional progress: %.4f", trad.ProgressPct)
	}

	// Coast model: log(target/current)/log(1.07).
	coast := fireTarget(t, data, models.FireTypeCoast)
	wantCoast := math.Log(1200000.0/100000.0) / math.Log(1.07)
	if !approxEqual(coast.YearsToTarget, wantCoast, 1e-6) {
		t.Errorf("unexpected coast years to target: %.2f (want %.2f)", coast.YearsToTarget, wantCoast)
	}
}

func TestComputeFireTargetsZeroPortfolioSentinel(t *testing.T) {
	market := common.NewDefaultConfig().Market
	expenses := []*models.Expense{{ID: "e1", Amount: 3000}}

	data := ComputeFinancialPlanningHub(nil, expenses, nil, market)

	for _, ft := range data.FireTargets {
		if ft.YearsToTarget != models.YearsUnreachable {
			t.Errorf("expected unreachable sentinel for %s with zero portfolio, got %.2f", ft.Type, ft.YearsToTarget)
		}
		if math.IsNaN(ft.YearsToTarget) || math.IsInf(ft.YearsToTarget, 0) {
			t.Errorf("years to target not guarded: %v", ft.YearsToTarget)
		}
	}
}

func TestComputeFireTargetsAlreadyReached(t *testing.T) {
	market := common.NewDefaultConfig().Market
	holdings := []*models.Holding{
		{Ticker: "VTI", Shares: 10000, CostBasis: 200, CurrentPrice: 300}, // 3M
	}
	expenses := []*models.Expense{{ID: "e1", Amount: 2000}} // 24k/yr, fat target 720k

	data := ComputeFinancialPlanningHub(holdings, expenses, nil, market)

	for _, ft := range data.FireTargets {
		if ft.YearsToTarget != 0 {
			t.Errorf("expected 0 years for reached target %s, got %.2f", ft.Type, ft.YearsToTarget)
		}
		if ft.ProgressPct != 100 {
			t.Errorf("expected progress clamped to 100 for %s, got %.2f", ft.Type, ft.ProgressPct)
		}
	}
}

func TestComputeMilestonesWithActiveGoals(t *testing.T) {
	market := common.NewDefaultConfig().Market
	holdings := []*models.Holding{
		{Ticker: "SCHD", Shares: 1500, CostBasis: 80, CurrentPrice: 100}, // 150k
	}
	goals := []*models.FinancialGoal{
		{ID: "g1", Name: "House Down Payment", TargetAmount: 60000, IsActive: true},
		{ID: "g2", Name: "Old Goal", TargetAmount: 5000, IsActive: false},
	}

	data := ComputeFinancialPlanningHub(holdings, nil, goals, market)

	// 4 fixed milestones + 1 active goal; inactive goal excluded.
	if len(data.Milestones) != 5 {
		t.Fatalf("expected 5 milestones, got %d", len(data.Milestones))
	}

	byName := map[string]models.Milestone{}
	for _, m := range data.Milestones {
		byName[m.Name] = m
	}
	if _, ok := byName["Old Goal"]; ok {
		t.Fatal("inactive goal should not appear as a milestone")
	}

	down := byName["House Down Payment"]
	if !down.Completed || down.Percentage != 100 {
		t.Fatalf("expected down payment goal completed and clamped to 100, got %+v", down)
	}

	million := byName["Millionaire"]
	if million.Completed {
		t.Fatal("millionaire milestone should not be completed at 150k")
	}
	if !approxEqual(million.Percentage, 15, 1e-6) {
		t.Fatalf("expected 15%% to millionaire, got %.2f", million.Percentage)
	}

	// Sorted ascending by target.
	for i := 1; i < len(data.Milestones); i++ {
		if data.Milestones[i].Target < data.Milestones[i-1].Target {
			t.Fatalf("milestones not sorted by target: %+v", data.Milestones)
		}
	}
}

func TestComputeProjectionsSeries(t *testing.T) {
	market := common.NewDefaultConfig().Market
	holdings := []*models.Holding{
		{Ticker: "SCHD", Shares: 1000, CostBasis: 80, CurrentPrice: 100, DividendYieldPct: 4}, // 100k
	}

	data := ComputeFinancialPlanningHub(holdings, nil, nil, market)

	if len(data.Projections) != 11 {
		t.Fatalf("expected 11 projection points (years 0..10), got %d", len(data.Projections))
	}

	first := data.Projections[0]
	if first.Year != 0 || !approxEqual(first.Value, 100000, 1e-6) {
		t.Fatalf("expected entry 0 at current value, got %+v", first)
	}
	if !approxEqual(first.AnnualDividends, 100000*market.ProjectionDividendYield, 1e-6) {
		t.Fatalf("unexpected year-0 dividends: %.2f", first.AnnualDividends)
	}

	// Contribution is fixed at the configured fraction of the starting value.
	wantContribution := 100000 * market.ContributionRate
	for _, p := range data.Projections {
		if !approxEqual(p.AnnualContribution, wantContribution, 1e-6) {
			t.Fatalf("expected fixed contribution %.2f at year %d, got %.2f", wantContribution, p.Year, p.AnnualContribution)
		}
	}

	// Year 1 = year0 × (1+g) + contribution.
	second := data.Projections[1]
	want := 100000*(1+market.GrowthRate) + wantContribution
	if !approxEqual(second.Value, want, 1e-6) {
		t.Fatalf("expected year-1 value %.2f, got %.2f", want, second.Value)
	}

	// Monotonic growth with positive start.
	for i := 1; i < len(data.Projections); i++ {
		if data.Projections[i].Value <= data.Projections[i-1].Value {
			t.Fatalf("projection not increasing at year %d", data.Projections[i].Year)
		}
	}
}

func TestGetFinancialPlanningHubEmptyStore(t *testing.T) {
	svc := NewService(memory.NewManager(), common.NewDefaultConfig(), common.NewSilentLogger())

	data := svc.GetFinancialPlanningHub(context.Background(), "local")

	if data == nil {
		t.Fatal("expected non-nil hub data")
	}
	if len(data.Projections) != 11 {
		t.Fatalf("expected full projection series even when empty, got %d points", len(data.Projections))
	}
	for _, p := range data.Projections {
		if p.Value != 0 {
			t.Fatalf("expected flat zero projection for empty portfolio, got %+v", p)
		}
	}
	for _, ft := range data.FireTargets {
		if math.IsNaN(ft.YearsToTarget) || math.IsInf(ft.YearsToTarget, 0) {
			t.Fatalf("unguarded years to target: %v", ft.YearsToTarget)
		}
	}
}

func TestGetFinancialPlanningHubAnnualExpenseFilter(t *testing.T) {
	storage := memory.NewManager()
	ctx := context.Background()
	expenses := []*models.Expense{
		{ID: "e1", UserID: "local", Amount: 1000, Frequency: models.FrequencyMonthly},
		{ID: "e2", UserID: "local", Amount: 12000, Frequency: models.FrequencyAnnually}, // excluded from monthly sum
	}
	for _, ex := range expenses {
		if err := storage.Records().SaveExpense(ctx, ex); err != nil {
			t.Fatalf("failed to save expense: %v", err)
		}
	}

	svc := NewService(storage, common.NewDefaultConfig(), common.NewSilentLogger())
	data := svc.GetFinancialPlanningHub(ctx, "local")

	// Annual expenses = 1000 × 12; the annual entry is excluded.
	lean := fireTarget(t, data, models.FireTypeLean)
	if !approxEqual(lean.TargetValue, 12000*20, 1e-6) {
		t.Fatalf("expected lean target from monthly entries only, got %.2f", lean.TargetValue)
	}
}
