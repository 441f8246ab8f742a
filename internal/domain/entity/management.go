package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scope of the management overview
type Scope string

const (
	ScopeGroup Scope = "Group"
	ScopeBU    Scope = "BU"
)

// Granularity of the management overview period
type Granularity string

const (
	GranularityMonth   Granularity = "Month"
	GranularityQuarter Granularity = "Quarter"
	GranularityYear    Granularity = "Year"
)

// DefaultOverviewKey is served when no overview exists for a selection
const DefaultOverviewKey = "Group_Month_January_all"

// OverviewKey builds the lookup key of a management overview
func OverviewKey(scope Scope, granularity Granularity, period, buID string) string {
	if buID == "" {
		buID = "all"
	}
	return fmt.Sprintf("%s_%s_%s_%s", scope, granularity, period, buID)
}

// KPIMetric is one executive snapshot figure with its variances in percent
type KPIMetric struct {
	Value    int64           `json:"value" yaml:"value"`
	VsBudget decimal.Decimal `json:"vs_budget" yaml:"vs_budget"`
	VsYoY    decimal.Decimal `json:"vs_yoy" yaml:"vs_yoy"`
	Status   string          `json:"status" yaml:"status"` // positive, negative, neutral
}

// ExecutiveSnapshot groups the headline KPIs
type ExecutiveSnapshot struct {
	Revenue   KPIMetric `json:"revenue" yaml:"revenue"`
	EBITDA    KPIMetric `json:"ebitda" yaml:"ebitda"`
	NetProfit KPIMetric `json:"net_profit" yaml:"net_profit"`
	Cash      KPIMetric `json:"cash" yaml:"cash"`
	NetDebt   KPIMetric `json:"net_debt" yaml:"net_debt"`
}

// PlanPoint compares actual, budget and forecast for one period
type PlanPoint struct {
	Period   string `json:"period" yaml:"period"`
	Actual   int64  `json:"actual" yaml:"actual"`
	Budget   int64  `json:"budget" yaml:"budget"`
	Forecast int64  `json:"forecast" yaml:"forecast"`
}

// Contribution is one BU's (or sub-period's) share of a KPI
type Contribution struct {
	Name   string          `json:"name" yaml:"name"`
	Value  int64           `json:"value" yaml:"value"`
	Change decimal.Decimal `json:"change" yaml:"change"`
	Status string          `json:"status" yaml:"status"`
}

// Liquidity summarizes cash and leverage
type Liquidity struct {
	CashBalance       int64           `json:"cash_balance" yaml:"cash_balance"`
	OperatingCashFlow int64           `json:"operating_cash_flow" yaml:"operating_cash_flow"`
	NetDebtEBITDA     decimal.Decimal `json:"net_debt_ebitda" yaml:"net_debt_ebitda"`
	Threshold         decimal.Decimal `json:"net_debt_ebitda_threshold" yaml:"net_debt_ebitda_threshold"`
}

// WithinCovenant reports whether leverage is at or below the threshold
func (l Liquidity) WithinCovenant() bool {
	return l.NetDebtEBITDA.LessThanOrEqual(l.Threshold)
}

// ManagementOverview is the executive dashboard for one selection
type ManagementOverview struct {
	Key               string            `json:"key" yaml:"key"`
	Snapshot          ExecutiveSnapshot `json:"snapshot" yaml:"snapshot"`
	PerformanceVsPlan []PlanPoint       `json:"performance_vs_plan" yaml:"performance_vs_plan"`
	Contributions     []Contribution    `json:"contributions" yaml:"contributions"`
	Liquidity         Liquidity         `json:"liquidity" yaml:"liquidity"`
	Alerts            []string          `json:"alerts" yaml:"alerts"`
}
