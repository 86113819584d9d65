package production

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// Aggregate reduces a barber's production rows into monthly statistics.
// DaysWorked is the number of rows, not calendar days, and zero-valued rows still
// count. Ratios over clients are zero when there are no clients.
func Aggregate(records []models.DailyProduction) models.MonthlyStats {
	stats := models.MonthlyStats{
		AccumulatedCommission: decimal.Zero,
		TotalRevenue:          decimal.Zero,
		AverageTicket:         decimal.Zero,
		ServicesConversion:    decimal.Zero,
		ProductsConversion:    decimal.Zero,
	}

	for _, r := range records {
		stats.AccumulatedCommission = stats.AccumulatedCommission.Add(r.CommissionEarned)
		stats.TotalRevenue = stats.TotalRevenue.Add(r.Revenue())
		stats.TotalClients += r.ClientsCount
		stats.TotalServices += r.ServicesCount
		stats.TotalProducts += r.ProductsCount
	}
	stats.DaysWorked = len(records)

	if stats.TotalClients > 0 {
		clients := decimal.NewFromInt(int64(stats.TotalClients))
		stats.AverageTicket = stats.TotalRevenue.Div(clients)
		stats.ServicesConversion = decimal.NewFromInt(int64(stats.TotalServices)).Div(clients).Mul(hundred)
		stats.ProductsConversion = decimal.NewFromInt(int64(stats.TotalProducts)).Div(clients).Mul(hundred)
	}

	return stats
}

// CommissionEarned derives the commission stored on a production row from the
// barber's current rates.
func CommissionEarned(servicesTotal, productsTotal decimal.Decimal, barber models.Barber) decimal.Decimal {
	services := servicesTotal.Mul(models.Fraction(barber.ServicesCommission))
	products := productsTotal.Mul(models.Fraction(barber.ProductsCommission))
	return services.Add(products)
}
