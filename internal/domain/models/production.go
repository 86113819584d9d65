package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used across the API and storage keys.
const DateLayout = "2006-01-02"

// DailyProduction is one day of logged revenue and counts for one barber.
// (BarberID, Date) is unique: a second submission for the same day replaces the row.
type DailyProduction struct {
	BarberID         string          `json:"barber_id"`
	Date             time.Time       `json:"date"`
	ServicesTotal    decimal.Decimal `json:"services_total"`
	ProductsTotal    decimal.Decimal `json:"products_total"`
	ServicesCount    int             `json:"services_count"`
	ProductsCount    int             `json:"products_count"`
	ClientsCount     int             `json:"clients_count"`
	CommissionEarned decimal.Decimal `json:"commission_earned"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Revenue returns services plus products for the day.
func (p DailyProduction) Revenue() decimal.Decimal {
	return p.ServicesTotal.Add(p.ProductsTotal)
}

// ProductionInput is what a barber or manager submits for a given day.
type ProductionInput struct {
	BarberID      string          `json:"-"`
	Date          time.Time       `json:"-"`
	ServicesTotal decimal.Decimal `json:"services_total"`
	ProductsTotal decimal.Decimal `json:"products_total"`
	ServicesCount int             `json:"services_count"`
	ProductsCount int             `json:"products_count"`
	ClientsCount  int             `json:"clients_count"`
}

// ProductionRow is a production record joined with the names needed for rankings.
type ProductionRow struct {
	DailyProduction
	BarberName string
	UnitID     string
	UnitName   string
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
