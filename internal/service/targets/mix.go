package targets

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

// MixWindow is how many of the most recent production rows feed the mix estimate.
// The window is a row count, not bound to the calendar month.
const MixWindow = 30

// EstimateMix derives the share of commission coming from services versus products
// over the given rows, weighting each category by the barber's rate. Without any
// historical commission the split is even.
func EstimateMix(window []models.DailyProduction, servicesPct, productsPct decimal.Decimal) models.CommissionMix {
	if len(window) > MixWindow {
		window = window[:MixWindow]
	}

	servicesRate := models.Fraction(servicesPct)
	productsRate := models.Fraction(productsPct)

	services, products := decimal.Zero, decimal.Zero
	for _, r := range window {
		services = services.Add(r.ServicesTotal.Mul(servicesRate))
		products = products.Add(r.ProductsTotal.Mul(productsRate))
	}

	total := services.Add(products)
	if !total.IsPositive() {
		return models.EvenMix()
	}

	servicesMix := services.Div(total)
	return models.CommissionMix{
		ServicesMix: servicesMix,
		ProductsMix: decimal.NewFromInt(1).Sub(servicesMix),
	}
}
