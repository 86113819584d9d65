package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

// ErrInvalidProduction indicates a submission with negative amounts or counts.
var ErrInvalidProduction = errors.New("invalid production values")

// Store is the persistence surface the recorder needs.
type Store interface {
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	UpsertProduction(ctx context.Context, p models.DailyProduction) error
	DeleteProduction(ctx context.Context, barberID string, date time.Time) error
}

// Service records daily production. A second submission for the same barber and
// day replaces the first; nothing is accumulated.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a production recorder.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Record validates the input, derives the commission from the barber's current
// rates and upserts the row.
func (s *Service) Record(ctx context.Context, in models.ProductionInput) (models.DailyProduction, error) {
	if err := validate(in); err != nil {
		return models.DailyProduction{}, err
	}

	barber, err := s.store.GetBarber(ctx, in.BarberID)
	if err != nil {
		return models.DailyProduction{}, fmt.Errorf("load barber %s: %w", in.BarberID, err)
	}

	record := models.DailyProduction{
		BarberID:         barber.ID,
		Date:             models.Day(in.Date),
		ServicesTotal:    in.ServicesTotal,
		ProductsTotal:    in.ProductsTotal,
		ServicesCount:    in.ServicesCount,
		ProductsCount:    in.ProductsCount,
		ClientsCount:     in.ClientsCount,
		CommissionEarned: CommissionEarned(in.ServicesTotal, in.ProductsTotal, *barber),
		UpdatedAt:        s.now().UTC(),
	}

	if err := s.store.UpsertProduction(ctx, record); err != nil {
		return models.DailyProduction{}, fmt.Errorf("upsert production: %w", err)
	}

	s.logger.Info("production recorded",
		zap.String("barber_id", record.BarberID),
		zap.String("date", record.Date.Format(models.DateLayout)),
		zap.String("commission", record.CommissionEarned.StringFixed(2)))

	return record, nil
}

// Delete removes the row for a barber and day.
func (s *Service) Delete(ctx context.Context, barberID string, date time.Time) error {
	if err := s.store.DeleteProduction(ctx, barberID, models.Day(date)); err != nil {
		return fmt.Errorf("delete production: %w", err)
	}
	return nil
}

func validate(in models.ProductionInput) error {
	switch {
	case in.BarberID == "":
		return fmt.Errorf("%w: barber is required", ErrInvalidProduction)
	case in.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidProduction)
	case in.ServicesTotal.IsNegative(), in.ProductsTotal.IsNegative():
		return fmt.Errorf("%w: totals must not be negative", ErrInvalidProduction)
	case in.ServicesCount < 0, in.ProductsCount < 0, in.ClientsCount < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidProduction)
	}
	return nil
}
