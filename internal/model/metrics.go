package model

// HealthRow is one financial-health check: value against a pass threshold.
type HealthRow struct {
	Metric    string   `json:"metric"`
	Value     *float64 `json:"value"`
	Threshold string   `json:"threshold"`
	Verdict   string   `json:"verdict"`
}

// ProfitRow is one profitability metric with a guideline and verdict.
type ProfitRow struct {
	Metric    string   `json:"metric"`
	Value     *float64 `json:"value"`
	Guideline string   `json:"guideline"`
	Verdict   string   `json:"verdict"`
}

// GrowthRow is one growth or turnover metric with a display value and comment.
type GrowthRow struct {
	Metric  string `json:"metric"`
	Display string `json:"display"`
	Comment string `json:"comment"`
}

// PriceRow is one price-multiple metric.
type PriceRow struct {
	Metric  string   `json:"metric"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

// AssetValue holds the liquidation-weighted asset estimates.
type AssetValue struct {
	AdjustedAssets   float64 `json:"adjusted_assets"`
	LiquidationValue float64 `json:"liquidation_value"`
}

// IncomeValue holds the perpetuity and DCF enterprise estimates.
type IncomeValue struct {
	WeakSimple   float64 `json:"weak_simple"`
	StrongSimple float64 `json:"strong_simple"`
	WeakDCF      float64 `json:"weak_dcf"`
	StrongDCF    float64 `json:"strong_dcf"`
}

// MetricTables bundles every computed table for one snapshot pair.
type MetricTables struct {
	Health        []HealthRow `json:"health"`
	Profitability []ProfitRow `json:"profitability"`
	Growth        []GrowthRow `json:"growth"`
	AssetValue    AssetValue  `json:"asset_value"`
	IncomeValue   IncomeValue `json:"income_value"`
	Price         []PriceRow  `json:"price"`
}
