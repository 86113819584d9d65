package targets

import (
	"time"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

// ClassifyPeriod places the selected month relative to the month containing today.
func ClassifyPeriod(year int, month time.Month, today time.Time) models.PeriodStatus {
	selected := year*12 + int(month)
	current := today.Year()*12 + int(today.Month())

	switch {
	case selected < current:
		return models.PeriodPast
	case selected > current:
		return models.PeriodFuture
	default:
		return models.PeriodCurrent
	}
}
