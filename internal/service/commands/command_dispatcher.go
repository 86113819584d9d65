package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/repository/mongodb"
	"github.com/mamadbah2/barbershop/internal/service/leaderboard"
	"github.com/mamadbah2/barbershop/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// ErrUnknownSender indicates the sender's phone is not registered to an active barber.
var ErrUnknownSender = errors.New("unknown sender")

// HelpText lists the commands a barber can send.
const HelpText = `Commands:
/production <services> <products> <clients> [services_count] [products_count] [YYYY-MM-DD]
/target - today's daily target
/stats - this month's numbers
/ranking [week|month|last] - top barbers
/help - this message`

// BarberLookup resolves the sender of a message.
type BarberLookup interface {
	GetBarberByPhone(ctx context.Context, phone string) (*models.Barber, error)
}

// Recorder persists a day of production.
type Recorder interface {
	Record(ctx context.Context, in models.ProductionInput) (models.DailyProduction, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	Dashboard(ctx context.Context, barberID string, year int, month time.Month) (*models.BarberDashboard, error)
	Leaderboard(ctx context.Context, period, unitID string) (models.Leaderboard, error)
	Today() time.Time
}

// Dispatcher executes parsed commands on behalf of a sender.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	barbers   BarberLookup
	recorder  Recorder
	reporting ReportingAdapter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(barbers BarberLookup, recorder Recorder, reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		barbers:   barbers,
		recorder:  recorder,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs the command for the barber registered under the sender's phone
// and returns the reply text.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandHelp:
		return HelpText, nil
	case models.CommandUnknown:
		return "", ErrUnsupportedCommand
	}

	barber, err := s.barbers.GetBarberByPhone(ctx, models.NormalizePhone(sender))
	if errors.Is(err, mongodb.ErrNotFound) {
		return "", ErrUnknownSender
	}
	if err != nil {
		return "", fmt.Errorf("lookup sender: %w", err)
	}

	today := s.reporting.Today()

	switch cmd.Type {
	case models.CommandProduction:
		in, err := buildProductionInput(cmd, barber.ID, today)
		if err != nil {
			return "", err
		}
		record, err := s.recorder.Record(ctx, in)
		if err != nil {
			return "", err
		}
		message := fmt.Sprintf("✅ Production saved for %s: services R$ %s, products R$ %s, commission R$ %s.",
			record.Date.Format(models.DateLayout), record.ServicesTotal.StringFixed(2),
			record.ProductsTotal.StringFixed(2), record.CommissionEarned.StringFixed(2))
		if summary := s.safeTarget(ctx, barber.ID, record.Date); summary != "" {
			message += "\n\n" + summary
		}
		return message, nil
	case models.CommandTarget:
		dash, err := s.reporting.Dashboard(ctx, barber.ID, today.Year(), today.Month())
		if err != nil {
			return "", err
		}
		return reporting.FormatTarget(dash), nil
	case models.CommandStats:
		dash, err := s.reporting.Dashboard(ctx, barber.ID, today.Year(), today.Month())
		if err != nil {
			return "", err
		}
		return reporting.FormatStats(dash), nil
	case models.CommandRanking:
		period, title := rankingPeriod(cmd.Args)
		lb, err := s.reporting.Leaderboard(ctx, period, "")
		if err != nil {
			return "", err
		}
		return reporting.FormatLeaderboard(title, lb), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// safeTarget appends the refreshed daily target after a save; failures only cost
// the extra line.
func (s *Service) safeTarget(ctx context.Context, barberID string, date time.Time) string {
	dash, err := s.reporting.Dashboard(ctx, barberID, date.Year(), date.Month())
	if err != nil {
		s.logger.Debug("target summary failed", zap.Error(err))
		return ""
	}
	return reporting.FormatTarget(dash)
}

func buildProductionInput(cmd models.Command, barberID string, today time.Time) (models.ProductionInput, error) {
	args := cmd.Args
	date := models.Day(today)

	if n := len(args); n > 0 {
		if d, err := time.Parse(models.DateLayout, args[n-1]); err == nil {
			date = d
			args = args[:n-1]
		}
	}

	if len(args) < 3 || len(args) > 5 {
		return models.ProductionInput{}, fmt.Errorf("%w: expected /production <services> <products> <clients> [services_count] [products_count] [date]", ErrInvalidArguments)
	}

	services, err := parseAmount(args[0])
	if err != nil {
		return models.ProductionInput{}, err
	}
	products, err := parseAmount(args[1])
	if err != nil {
		return models.ProductionInput{}, err
	}

	counts := make([]int, 3)
	for i, raw := range args[2:] {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return models.ProductionInput{}, fmt.Errorf("%w: %q is not a whole number", ErrInvalidArguments, raw)
		}
		counts[i] = v
	}

	return models.ProductionInput{
		BarberID:      barberID,
		Date:          date,
		ServicesTotal: services,
		ProductsTotal: products,
		ClientsCount:  counts[0],
		ServicesCount: counts[1],
		ProductsCount: counts[2],
	}, nil
}

// parseAmount accepts both "123.45" and "123,45".
func parseAmount(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an amount", ErrInvalidArguments, raw)
	}
	return v, nil
}

func rankingPeriod(args []string) (string, string) {
	if len(args) > 0 {
		switch args[0] {
		case "week", "semana":
			return leaderboard.PeriodCurrentWeek, "Ranking of the week"
		case "last", "previous", "anterior":
			return leaderboard.PeriodPreviousMonth, "Ranking of last month"
		}
	}
	return leaderboard.PeriodCurrentMonth, "Ranking of the month"
}
