package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyGoal is the commission a barber aims for in a month and the number of
// days the manager planned for them to work. Unique per (BarberID, Year, Month).
type MonthlyGoal struct {
	ID               string          `json:"id"`
	BarberID         string          `json:"barber_id"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TargetCommission decimal.Decimal `json:"target_commission"`
	WorkDays         int             `json:"work_days"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// GoalRequest is the upsert payload for a monthly goal.
type GoalRequest struct {
	TargetCommission decimal.Decimal `json:"target_commission"`
	WorkDays         int             `json:"work_days"`
}
