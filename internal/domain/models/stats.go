package models

import "github.com/shopspring/decimal"

// MonthlyStats summarizes a barber's production rows over a date range.
type MonthlyStats struct {
	AccumulatedCommission decimal.Decimal `json:"accumulated_commission"`
	DaysWorked            int             `json:"days_worked"`
	TotalClients          int             `json:"total_clients"`
	TotalServices         int             `json:"total_services"`
	TotalProducts         int             `json:"total_products"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	AverageTicket         decimal.Decimal `json:"average_ticket"`
	ServicesConversion    decimal.Decimal `json:"services_conversion"`
	ProductsConversion    decimal.Decimal `json:"products_conversion"`
}

// CommissionMix is the historical split of commission between services and products.
type CommissionMix struct {
	ServicesMix decimal.Decimal `json:"services_mix"`
	ProductsMix decimal.Decimal `json:"products_mix"`
}

// EvenMix is used when there is no history to derive a split from.
func EvenMix() CommissionMix {
	half := decimal.NewFromFloat(0.5)
	return CommissionMix{ServicesMix: half, ProductsMix: half}
}

// PeriodStatus classifies a selected month against the current one.
type PeriodStatus string

const (
	PeriodPast    PeriodStatus = "past"
	PeriodCurrent PeriodStatus = "current"
	PeriodFuture  PeriodStatus = "future"
)

// DailyTarget is what a barber must produce per remaining day to reach the goal.
// Available is false when no per-day figure could be produced (closed month or no
// days left). GoalMet is true once the accumulated commission reached the target;
// DailyCommissionTarget is then zero or negative.
type DailyTarget struct {
	Period                PeriodStatus    `json:"period"`
	Strategy              string          `json:"strategy"`
	DaysLeft              int             `json:"days_left"`
	Remaining             decimal.Decimal `json:"remaining"`
	DailyCommissionTarget decimal.Decimal `json:"daily_commission_target"`
	ServicesTarget        decimal.Decimal `json:"services_target"`
	ProductsTarget        decimal.Decimal `json:"products_target"`
	GrossTarget           decimal.Decimal `json:"gross_target"`
	Available             bool            `json:"available"`
	GoalMet               bool            `json:"goal_met"`
}
