package targets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/barbershop/internal/calendar"
	"github.com/mamadbah2/barbershop/internal/domain/models"
)

// Input is a full snapshot of what a daily target depends on.
type Input struct {
	Goal   models.MonthlyGoal
	Stats  models.MonthlyStats
	Barber models.Barber
	Mix    models.CommissionMix
	Year   int
	Month  time.Month
	Today  time.Time
}

// Calculator computes daily targets with a calendar policy and a conversion
// strategy chosen by configuration. It keeps no state between calls.
type Calculator struct {
	policy   calendar.Policy
	strategy Strategy
}

// NewCalculator builds a calculator; nil arguments fall back to the Sunday-off
// calendar and the mix-weighted conversion.
func NewCalculator(policy calendar.Policy, strategy Strategy) *Calculator {
	if policy == nil {
		policy = calendar.WorkdaysExcludingSunday
	}
	if strategy == nil {
		strategy = MixWeighted{}
	}
	return &Calculator{policy: policy, strategy: strategy}
}

// Strategy returns the configured conversion strategy.
func (c *Calculator) Strategy() Strategy { return c.strategy }

// Compute derives the daily commission target and its gross equivalents.
// Closed months get no pressure; the current month spreads the remaining gap over
// the calendar policy's days left; future months over the planned work days.
func (c *Calculator) Compute(in Input) models.DailyTarget {
	remaining := in.Goal.TargetCommission.Sub(in.Stats.AccumulatedCommission)

	target := models.DailyTarget{
		Period:                ClassifyPeriod(in.Year, in.Month, in.Today),
		Strategy:              c.strategy.Name(),
		Remaining:             remaining,
		DailyCommissionTarget: decimal.Zero,
		ServicesTarget:        decimal.Zero,
		ProductsTarget:        decimal.Zero,
		GrossTarget:           decimal.Zero,
		GoalMet:               !remaining.IsPositive(),
	}

	switch target.Period {
	case models.PeriodPast:
		return target
	case models.PeriodCurrent:
		target.DaysLeft = c.policy(in.Today)
	case models.PeriodFuture:
		target.DaysLeft = in.Goal.WorkDays
	}

	if target.DaysLeft <= 0 {
		target.DaysLeft = 0
		return target
	}

	daily := remaining.Div(decimal.NewFromInt(int64(target.DaysLeft)))
	gross := c.strategy.Convert(daily, in.Barber, in.Mix)

	target.DailyCommissionTarget = daily
	target.ServicesTarget = gross.Services
	target.ProductsTarget = gross.Products
	target.GrossTarget = gross.Gross
	target.Available = true
	return target
}
