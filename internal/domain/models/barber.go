package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Barber is a service provider whose production and commission are tracked.
// Commission percentages are read whenever targets are computed, so a rate change
// affects future targets but never the commission already stored on past rows.
type Barber struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone,omitempty"`
	UnitID             string          `json:"unit_id"`
	ServicesCommission decimal.Decimal `json:"services_commission"`
	ProductsCommission decimal.Decimal `json:"products_commission"`
	Active             bool            `json:"active"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Unit is a physical shop location barbers are assigned to.
type Unit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// BarberRequest is the payload used to create or update a barber.
type BarberRequest struct {
	Name               string          `json:"name" binding:"required"`
	Phone              string          `json:"phone"`
	UnitID             string          `json:"unit_id" binding:"required"`
	ServicesCommission decimal.Decimal `json:"services_commission"`
	ProductsCommission decimal.Decimal `json:"products_commission"`
	Active             *bool           `json:"active"`
}

// UnitRequest is the payload used to create or update a unit.
type UnitRequest struct {
	Name   string `json:"name" binding:"required"`
	Active *bool  `json:"active"`
}

var hundred = decimal.NewFromInt(100)

// ValidPercent reports whether p lies in [0, 100].
func ValidPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

// Fraction converts a 0–100 percentage into a 0–1 factor.
func Fraction(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}

// NormalizePhone keeps only the digits of a phone number so numbers typed with
// "+", spaces or dashes match the sender IDs WhatsApp reports.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
