package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BarberDashboard is the per-barber monthly view. Target is nil when no goal exists
// for the selected month.
type BarberDashboard struct {
	Barber   Barber          `json:"barber"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Stats    MonthlyStats    `json:"stats"`
	Goal     *MonthlyGoal    `json:"goal,omitempty"`
	Progress decimal.Decimal `json:"progress"`
	Mix      CommissionMix   `json:"mix"`
	Target   *DailyTarget    `json:"target,omitempty"`
}

// ManagerOverview aggregates every barber's production for a month.
type ManagerOverview struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalClients    int             `json:"total_clients"`
	AverageTicket   decimal.Decimal `json:"average_ticket"`
	GoalsAchieved   int             `json:"goals_achieved"`
	ActiveBarbers   int             `json:"active_barbers"`
}

// EvolutionPoint compares a month's goal with the commission actually earned.
type EvolutionPoint struct {
	Month    int             `json:"month"`
	Goal     decimal.Decimal `json:"goal"`
	Earned   decimal.Decimal `json:"earned"`
	Achieved bool            `json:"achieved"`
}

// MonthlyResult is one exported line of a closed month.
type MonthlyResult struct {
	Year       int
	Month      int
	BarberName string
	UnitName   string
	Stats      MonthlyStats
	Goal       decimal.Decimal
	Achieved   bool
	ExportedAt time.Time
}
