package leaderboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/barbershop/internal/calendar"
	"github.com/mamadbah2/barbershop/internal/domain/models"
)

// DefaultSize is how many barbers each ranking shows.
const DefaultSize = 3

// Period names accepted for leaderboards.
const (
	PeriodCurrentWeek   = "current_week"
	PeriodCurrentMonth  = "current_month"
	PeriodPreviousMonth = "previous_month"
)

// Range resolves a named period to an inclusive date range around today.
// Unknown names fall back to the current month.
func Range(period string, today time.Time) (time.Time, time.Time) {
	switch period {
	case PeriodCurrentWeek:
		return calendar.WeekBounds(today)
	case PeriodPreviousMonth:
		prev := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
		return calendar.MonthBounds(prev.Year(), prev.Month(), today.Location())
	default:
		return calendar.MonthBounds(today.Year(), today.Month(), today.Location())
	}
}

// ValidPeriod reports whether the name is a known period.
func ValidPeriod(period string) error {
	switch period {
	case PeriodCurrentWeek, PeriodCurrentMonth, PeriodPreviousMonth:
		return nil
	}
	return fmt.Errorf("unknown leaderboard period %q", period)
}

type barberTotals struct {
	barberID   string
	barberName string
	unitName   string
	services   decimal.Decimal
	products   decimal.Decimal
	commission decimal.Decimal
	clients    int
}

func (b barberTotals) averageTicket() decimal.Decimal {
	if b.clients <= 0 {
		return decimal.Zero
	}
	return b.services.Add(b.products).Div(decimal.NewFromInt(int64(b.clients)))
}

// Rank groups rows by barber and returns the top size barbers for each metric.
// Ties on a metric are broken by ascending barber ID so the result does not
// depend on the order the store returned rows in.
func Rank(rows []models.ProductionRow, size int) models.Leaderboard {
	if size <= 0 {
		size = DefaultSize
	}

	index := make(map[string]int)
	var totals []barberTotals
	for _, r := range rows {
		i, ok := index[r.BarberID]
		if !ok {
			i = len(totals)
			index[r.BarberID] = i
			totals = append(totals, barberTotals{
				barberID:   r.BarberID,
				barberName: r.BarberName,
				unitName:   r.UnitName,
				services:   decimal.Zero,
				products:   decimal.Zero,
				commission: decimal.Zero,
			})
		}
		t := &totals[i]
		t.services = t.services.Add(r.ServicesTotal)
		t.products = t.products.Add(r.ProductsTotal)
		t.commission = t.commission.Add(r.CommissionEarned)
		t.clients += r.ClientsCount
	}

	return models.Leaderboard{
		Services:      top(totals, size, func(b barberTotals) decimal.Decimal { return b.services }),
		Products:      top(totals, size, func(b barberTotals) decimal.Decimal { return b.products }),
		AverageTicket: top(totals, size, barberTotals.averageTicket),
		Commission:    top(totals, size, func(b barberTotals) decimal.Decimal { return b.commission }),
	}
}

func top(totals []barberTotals, size int, metric func(barberTotals) decimal.Decimal) []models.RankingEntry {
	entries := make([]models.RankingEntry, 0, len(totals))
	for _, b := range totals {
		entries = append(entries, models.RankingEntry{
			BarberID:   b.barberID,
			BarberName: b.barberName,
			UnitName:   b.unitName,
			Value:      metric(b),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].Value.Cmp(entries[j].Value); c != 0 {
			return c > 0
		}
		return entries[i].BarberID < entries[j].BarberID
	})

	if len(entries) > size {
		entries = entries[:size]
	}
	return entries
}
