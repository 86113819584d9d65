package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/barbershop/internal/calendar"
	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/repository/mongodb"
	"github.com/mamadbah2/barbershop/internal/service/leaderboard"
	"github.com/mamadbah2/barbershop/internal/service/production"
	"github.com/mamadbah2/barbershop/internal/service/targets"
)

var hundred = decimal.NewFromInt(100)

// Store is the read surface reporting needs.
type Store interface {
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	ListBarbers(ctx context.Context, unitID string, activeOnly bool) ([]models.Barber, error)
	ListUnits(ctx context.Context) ([]models.Unit, error)
	GetGoal(ctx context.Context, barberID string, year, month int) (*models.MonthlyGoal, error)
	ListGoals(ctx context.Context, barberID string, year int) ([]models.MonthlyGoal, error)
	ListGoalsForMonth(ctx context.Context, year, month int) ([]models.MonthlyGoal, error)
	ListProductions(ctx context.Context, barberID string, from, to time.Time) ([]models.DailyProduction, error)
	RecentProductions(ctx context.Context, barberID string, limit int) ([]models.DailyProduction, error)
	ListAllProductions(ctx context.Context, from, to time.Time) ([]models.DailyProduction, error)
}

// Options tune reporting.
type Options struct {
	LeaderboardSize int
	Location        *time.Location
}

// Service builds dashboards, rankings and monthly summaries from stored rows.
type Service struct {
	store      Store
	calculator *targets.Calculator
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(store Store, calculator *targets.Calculator, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calculator == nil {
		calculator = targets.NewCalculator(nil, nil)
	}
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = leaderboard.DefaultSize
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{store: store, calculator: calculator, opts: opts, logger: logger, now: time.Now}
}

// Today returns the current instant in the shop's timezone.
func (s *Service) Today() time.Time {
	return s.now().In(s.opts.Location)
}

// Dashboard assembles a barber's month: stats, goal progress, commission mix and,
// when a goal exists, the daily target.
func (s *Service) Dashboard(ctx context.Context, barberID string, year int, month time.Month) (*models.BarberDashboard, error) {
	from, to := calendar.MonthBounds(year, month, nil)

	var (
		barber *models.Barber
		rows   []models.DailyProduction
		recent []models.DailyProduction
		goal   *models.MonthlyGoal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		barber, err = s.store.GetBarber(gctx, barberID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.store.ListProductions(gctx, barberID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.store.RecentProductions(gctx, barberID, targets.MixWindow)
		return err
	})
	g.Go(func() error {
		var err error
		goal, err = s.optionalGoal(gctx, barberID, year, int(month))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard for %s: %w", barberID, err)
	}

	stats := production.Aggregate(rows)
	dash := &models.BarberDashboard{
		Barber:   *barber,
		Year:     year,
		Month:    int(month),
		Stats:    stats,
		Goal:     goal,
		Progress: decimal.Zero,
		Mix:      targets.EstimateMix(recent, barber.ServicesCommission, barber.ProductsCommission),
	}

	if goal != nil {
		dash.Progress = progress(stats.AccumulatedCommission, goal.TargetCommission)
		target := s.calculator.Compute(targets.Input{
			Goal:   *goal,
			Stats:  stats,
			Barber: *barber,
			Mix:    dash.Mix,
			Year:   year,
			Month:  month,
			Today:  s.Today(),
		})
		dash.Target = &target
	}

	s.logger.Debug("dashboard built",
		zap.String("barber_id", barberID),
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Bool("has_goal", goal != nil))

	return dash, nil
}

func (s *Service) optionalGoal(ctx context.Context, barberID string, year, month int) (*models.MonthlyGoal, error) {
	goal, err := s.store.GetGoal(ctx, barberID, year, month)
	if errors.Is(err, mongodb.ErrNotFound) {
		return nil, nil
	}
	return goal, err
}

func progress(earned, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return earned.Div(target).Mul(hundred).Round(2)
}

// Leaderboard ranks barbers over a named period, optionally within a unit.
func (s *Service) Leaderboard(ctx context.Context, period, unitID string) (models.Leaderboard, error) {
	if err := leaderboard.ValidPeriod(period); err != nil {
		return models.Leaderboard{}, err
	}
	from, to := leaderboard.Range(period, s.Today())
	return s.LeaderboardBetween(ctx, from, to, unitID)
}

// LeaderboardBetween ranks every barber with rows in [from, to], inactive ones
// included, optionally within a unit.
func (s *Service) LeaderboardBetween(ctx context.Context, from, to time.Time, unitID string) (models.Leaderboard, error) {
	if to.Before(from) {
		return models.Leaderboard{}, fmt.Errorf("leaderboard range ends before it starts")
	}

	var (
		rows    []models.DailyProduction
		barbers []models.Barber
		units   []models.Unit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.ListAllProductions(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		barbers, err = s.store.ListBarbers(gctx, unitID, false)
		return err
	})
	g.Go(func() error {
		var err error
		units, err = s.store.ListUnits(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Leaderboard{}, fmt.Errorf("load leaderboard data: %w", err)
	}

	return leaderboard.Rank(joinRows(rows, barbers, units), s.opts.LeaderboardSize), nil
}

// joinRows attaches barber and unit names, dropping rows of barbers not in the list.
func joinRows(rows []models.DailyProduction, barbers []models.Barber, units []models.Unit) []models.ProductionRow {
	byID := make(map[string]models.Barber, len(barbers))
	for _, b := range barbers {
		byID[b.ID] = b
	}
	unitNames := make(map[string]string, len(units))
	for _, u := range units {
		unitNames[u.ID] = u.Name
	}

	joined := make([]models.ProductionRow, 0, len(rows))
	for _, r := range rows {
		b, ok := byID[r.BarberID]
		if !ok {
			continue
		}
		joined = append(joined, models.ProductionRow{
			DailyProduction: r,
			BarberName:      b.Name,
			UnitID:          b.UnitID,
			UnitName:        unitNames[b.UnitID],
		})
	}
	return joined
}

type monthData struct {
	rows    []models.DailyProduction
	barbers []models.Barber
	units   []models.Unit
	goals   map[string]models.MonthlyGoal
}

func (s *Service) loadMonth(ctx context.Context, year int, month time.Month) (*monthData, error) {
	from, to := calendar.MonthBounds(year, month, nil)
	data := &monthData{goals: make(map[string]models.MonthlyGoal)}
	var goals []models.MonthlyGoal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.rows, err = s.store.ListAllProductions(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		data.barbers, err = s.store.ListBarbers(gctx, "", false)
		return err
	})
	g.Go(func() error {
		var err error
		data.units, err = s.store.ListUnits(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoalsForMonth(gctx, year, int(month))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load month %d-%02d: %w", year, month, err)
	}

	for _, goal := range goals {
		data.goals[goal.BarberID] = goal
	}
	return data, nil
}

func (d *monthData) rowsByBarber() map[string][]models.DailyProduction {
	grouped := make(map[string][]models.DailyProduction)
	for _, r := range d.rows {
		grouped[r.BarberID] = append(grouped[r.BarberID], r)
	}
	return grouped
}

func achieved(earned decimal.Decimal, goal models.MonthlyGoal, ok bool) bool {
	return ok && goal.TargetCommission.IsPositive() && earned.GreaterThanOrEqual(goal.TargetCommission)
}

// Overview totals every production row of a month. Goals achieved counts each
// goal of the month whose barber earned at least its target; ActiveBarbers is the
// only figure restricted to active barbers.
func (s *Service) Overview(ctx context.Context, year int, month time.Month) (*models.ManagerOverview, error) {
	data, err := s.loadMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	overview := &models.ManagerOverview{Year: year, Month: int(month)}
	for _, b := range data.barbers {
		if b.Active {
			overview.ActiveBarbers++
		}
	}

	earned := make(map[string]decimal.Decimal)
	for _, r := range data.rows {
		earned[r.BarberID] = earned[r.BarberID].Add(r.CommissionEarned)
	}
	for barberID, goal := range data.goals {
		if achieved(earned[barberID], goal, true) {
			overview.GoalsAchieved++
		}
	}

	totals := production.Aggregate(data.rows)
	overview.TotalRevenue = totals.TotalRevenue
	overview.TotalCommission = totals.AccumulatedCommission
	overview.TotalClients = totals.TotalClients
	overview.AverageTicket = totals.AverageTicket.Round(2)
	return overview, nil
}

// Evolution returns twelve points comparing each month's goal with the earned
// commission. Months without a goal report a zero goal.
func (s *Service) Evolution(ctx context.Context, barberID string, year int) ([]models.EvolutionPoint, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	var (
		rows  []models.DailyProduction
		goals []models.MonthlyGoal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.ListProductions(gctx, barberID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(gctx, barberID, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load evolution for %s: %w", barberID, err)
	}

	points := make([]models.EvolutionPoint, 12)
	for i := range points {
		points[i] = models.EvolutionPoint{Month: i + 1, Goal: decimal.Zero, Earned: decimal.Zero}
	}
	for _, r := range rows {
		p := &points[int(r.Date.Month())-1]
		p.Earned = p.Earned.Add(r.CommissionEarned)
	}
	for _, goal := range goals {
		if goal.Month < 1 || goal.Month > 12 {
			continue
		}
		points[goal.Month-1].Goal = goal.TargetCommission
	}
	for i := range points {
		p := &points[i]
		p.Achieved = p.Goal.IsPositive() && p.Earned.GreaterThanOrEqual(p.Goal)
	}
	return points, nil
}

// MonthlyResults produces one line per barber that is active or has rows in the
// month.
func (s *Service) MonthlyResults(ctx context.Context, year int, month time.Month) ([]models.MonthlyResult, error) {
	data, err := s.loadMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	unitNames := make(map[string]string, len(data.units))
	for _, u := range data.units {
		unitNames[u.ID] = u.Name
	}

	grouped := data.rowsByBarber()
	exportedAt := s.now().In(s.opts.Location)
	results := make([]models.MonthlyResult, 0, len(data.barbers))
	for _, b := range data.barbers {
		if !b.Active && len(grouped[b.ID]) == 0 {
			continue
		}
		stats := production.Aggregate(grouped[b.ID])
		goal, ok := data.goals[b.ID]
		target := decimal.Zero
		if ok {
			target = goal.TargetCommission
		}
		results = append(results, models.MonthlyResult{
			Year:       year,
			Month:      int(month),
			BarberName: b.Name,
			UnitName:   unitNames[b.UnitID],
			Stats:      stats,
			Goal:       target,
			Achieved:   achieved(stats.AccumulatedCommission, goal, ok),
			ExportedAt: exportedAt,
		})
	}
	return results, nil
}
