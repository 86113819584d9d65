package targets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

const (
	StrategyMixWeighted = "mix_weighted"
	StrategyBlendedRate = "blended_rate"
	StrategyEvenSplit   = "even_split"
)

// GrossTargets is the sales a barber needs in a day to earn a given commission.
type GrossTargets struct {
	Services decimal.Decimal
	Products decimal.Decimal
	Gross    decimal.Decimal
}

// Strategy converts a daily commission target into gross sales targets.
type Strategy interface {
	Name() string
	Convert(dailyCommission decimal.Decimal, barber models.Barber, mix models.CommissionMix) GrossTargets
}

// StrategyByName resolves a configured strategy name.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case StrategyMixWeighted:
		return MixWeighted{}, nil
	case StrategyBlendedRate:
		return BlendedRate{}, nil
	case StrategyEvenSplit:
		return EvenSplit{}, nil
	default:
		return nil, fmt.Errorf("unknown target strategy %q", name)
	}
}

// MixWeighted splits the commission by the historical mix and converts each part
// with its own rate.
type MixWeighted struct{}

func (MixWeighted) Name() string { return StrategyMixWeighted }

func (MixWeighted) Convert(daily decimal.Decimal, barber models.Barber, mix models.CommissionMix) GrossTargets {
	services := toGross(daily.Mul(mix.ServicesMix), barber.ServicesCommission)
	products := toGross(daily.Mul(mix.ProductsMix), barber.ProductsCommission)
	return GrossTargets{Services: services, Products: products, Gross: services.Add(products)}
}

// EvenSplit halves the commission between categories whatever the history says.
type EvenSplit struct{}

func (EvenSplit) Name() string { return StrategyEvenSplit }

func (EvenSplit) Convert(daily decimal.Decimal, barber models.Barber, _ models.CommissionMix) GrossTargets {
	return MixWeighted{}.Convert(daily, barber, models.EvenMix())
}

// BlendedRate divides the commission by the average of both rates, yielding a
// single gross figure with no per-category split.
type BlendedRate struct{}

func (BlendedRate) Name() string { return StrategyBlendedRate }

func (BlendedRate) Convert(daily decimal.Decimal, barber models.Barber, _ models.CommissionMix) GrossTargets {
	avg := barber.ServicesCommission.Add(barber.ProductsCommission).Div(decimal.NewFromInt(2))
	return GrossTargets{Services: decimal.Zero, Products: decimal.Zero, Gross: toGross(daily, avg)}
}

// toGross turns a commission amount into the sales producing it at pct percent.
// A zero rate or a non-positive commission yields zero.
func toGross(commission, pct decimal.Decimal) decimal.Decimal {
	if !pct.IsPositive() || !commission.IsPositive() {
		return decimal.Zero
	}
	return commission.Div(models.Fraction(pct))
}
