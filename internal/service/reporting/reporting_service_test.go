package reporting

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/repository/mongodb"
	"github.com/mamadbah2/barbershop/internal/service/targets"
)

type fakeStore struct {
	barbers     []models.Barber
	units       []models.Unit
	goals       []models.MonthlyGoal
	productions []models.DailyProduction
}

func (f *fakeStore) GetBarber(_ context.Context, id string) (*models.Barber, error) {
	for _, b := range f.barbers {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeStore) ListBarbers(_ context.Context, unitID string, activeOnly bool) ([]models.Barber, error) {
	var out []models.Barber
	for _, b := range f.barbers {
		if (unitID != "" && b.UnitID != unitID) || (activeOnly && !b.Active) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) ListUnits(context.Context) ([]models.Unit, error) {
	return f.units, nil
}

func (f *fakeStore) GetGoal(_ context.Context, barberID string, year, month int) (*models.MonthlyGoal, error) {
	for _, g := range f.goals {
		if g.BarberID == barberID && g.Year == year && g.Month == month {
			g := g
			return &g, nil
		}
	}
	return nil, fmt.Errorf("get goal: %w", mongodb.ErrNotFound)
}

func (f *fakeStore) ListGoals(_ context.Context, barberID string, year int) ([]models.MonthlyGoal, error) {
	var out []models.MonthlyGoal
	for _, g := range f.goals {
		if g.BarberID == barberID && g.Year == year {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) ListGoalsForMonth(_ context.Context, year, month int) ([]models.MonthlyGoal, error) {
	var out []models.MonthlyGoal
	for _, g := range f.goals {
		if g.Year == year && g.Month == month {
			out = append(out, g)
		}
	}
	return out, nil
}

func within(d, from, to time.Time) bool {
	return !d.Before(models.Day(from)) && !d.After(models.Day(to))
}

func (f *fakeStore) ListProductions(_ context.Context, barberID string, from, to time.Time) ([]models.DailyProduction, error) {
	var out []models.DailyProduction
	for _, p := range f.productions {
		if p.BarberID == barberID && within(p.Date, from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) RecentProductions(_ context.Context, barberID string, limit int) ([]models.DailyProduction, error) {
	var out []models.DailyProduction
	for _, p := range f.productions {
		if p.BarberID == barberID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListAllProductions(_ context.Context, from, to time.Time) ([]models.DailyProduction, error) {
	var out []models.DailyProduction
	for _, p := range f.productions {
		if within(p.Date, from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func row(barberID string, date time.Time, services, products, commission string, clients int) models.DailyProduction {
	return models.DailyProduction{
		BarberID:         barberID,
		Date:             date,
		ServicesTotal:    dec(services),
		ProductsTotal:    dec(products),
		CommissionEarned: dec(commission),
		ClientsCount:     clients,
		ServicesCount:    clients,
	}
}

func newFixture() *fakeStore {
	return &fakeStore{
		units: []models.Unit{{ID: "u1", Name: "Centro"}, {ID: "u2", Name: "Norte"}},
		barbers: []models.Barber{
			{ID: "b1", Name: "Ana", UnitID: "u1", ServicesCommission: dec("50"), ProductsCommission: dec("15"), Active: true},
			{ID: "b2", Name: "Bruno", UnitID: "u2", ServicesCommission: dec("40"), ProductsCommission: dec("10"), Active: true},
			{ID: "b3", Name: "Caio", UnitID: "u1", ServicesCommission: dec("40"), ProductsCommission: dec("10"), Active: false},
		},
		goals: []models.MonthlyGoal{
			{BarberID: "b1", Year: 2025, Month: 6, TargetCommission: dec("1000"), WorkDays: 20},
			{BarberID: "b2", Year: 2025, Month: 6, TargetCommission: dec("5000"), WorkDays: 20},
		},
		productions: []models.DailyProduction{
			row("b1", day(time.June, 2), "2000", "0", "1000", 20),
			row("b1", day(time.June, 3), "1000", "1000", "650", 10),
			row("b2", day(time.June, 3), "1500", "500", "650", 30),
			row("b3", day(time.June, 4), "9000", "9000", "4500", 90),
			row("b1", day(time.May, 20), "800", "0", "400", 8),
		},
	}
}

func newTestService(store Store) *Service {
	calc := targets.NewCalculator(func(time.Time) int { return 15 }, targets.MixWeighted{})
	svc := NewService(store, calc, Options{LeaderboardSize: 3}, nil)
	svc.now = func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardWithGoal(t *testing.T) {
	svc := newTestService(newFixture())

	dash, err := svc.Dashboard(context.Background(), "b1", 2025, time.June)
	require.NoError(t, err)

	assert.Equal(t, 2, dash.Stats.DaysWorked)
	assertDecimal(t, "1650", dash.Stats.AccumulatedCommission)
	assertDecimal(t, "165", dash.Progress)
	require.NotNil(t, dash.Goal)
	require.NotNil(t, dash.Target)
	assert.True(t, dash.Target.GoalMet)
	assertDecimal(t, "1", dash.Mix.ServicesMix.Add(dash.Mix.ProductsMix))
	assert.True(t, dash.Mix.ServicesMix.GreaterThan(dash.Mix.ProductsMix))
}

func TestDashboardTargetForOpenGoal(t *testing.T) {
	store := newFixture()
	svc := newTestService(store)

	dash, err := svc.Dashboard(context.Background(), "b2", 2025, time.June)
	require.NoError(t, err)

	require.NotNil(t, dash.Target)
	assert.True(t, dash.Target.Available)
	assert.Equal(t, models.PeriodCurrent, dash.Target.Period)
	assert.Equal(t, 15, dash.Target.DaysLeft)
	assertDecimal(t, "4350", dash.Target.Remaining)
	assertDecimal(t, "290", dash.Target.DailyCommissionTarget)
	assertDecimal(t, "13", dash.Progress)
}

func TestDashboardWithoutGoal(t *testing.T) {
	svc := newTestService(newFixture())

	dash, err := svc.Dashboard(context.Background(), "b1", 2025, time.May)
	require.NoError(t, err)

	assert.Nil(t, dash.Goal)
	assert.Nil(t, dash.Target)
	assert.True(t, dash.Progress.IsZero())
	assertDecimal(t, "400", dash.Stats.AccumulatedCommission)
}

func TestDashboardUnknownBarber(t *testing.T) {
	svc := newTestService(newFixture())

	_, err := svc.Dashboard(context.Background(), "nobody", 2025, time.June)
	assert.ErrorIs(t, err, mongodb.ErrNotFound)
}

func TestLeaderboardIncludesInactiveAndFiltersUnit(t *testing.T) {
	svc := newTestService(newFixture())

	lb, err := svc.Leaderboard(context.Background(), "current_month", "")
	require.NoError(t, err)
	require.Len(t, lb.Services, 3)
	assert.Equal(t, "b3", lb.Services[0].BarberID)
	assert.Equal(t, "Caio", lb.Services[0].BarberName)
	assert.Equal(t, "Centro", lb.Services[0].UnitName)
	assert.Equal(t, "b1", lb.Services[1].BarberID)
	assert.Equal(t, "b2", lb.Services[2].BarberID)

	lb, err = svc.Leaderboard(context.Background(), "current_month", "u1")
	require.NoError(t, err)
	require.Len(t, lb.Commission, 2)
	assert.Equal(t, "Caio", lb.Commission[0].BarberName)
	assert.Equal(t, "Ana", lb.Commission[1].BarberName)

	lb, err = svc.Leaderboard(context.Background(), "current_month", "u2")
	require.NoError(t, err)
	require.Len(t, lb.Commission, 1)
	assert.Equal(t, "Bruno", lb.Commission[0].BarberName)
}

func TestLeaderboardBetweenExplicitRange(t *testing.T) {
	svc := newTestService(newFixture())

	lb, err := svc.LeaderboardBetween(context.Background(), day(time.May, 1), day(time.June, 2), "")
	require.NoError(t, err)
	require.Len(t, lb.Commission, 1)
	assert.Equal(t, "b1", lb.Commission[0].BarberID)
	assertDecimal(t, "1400", lb.Commission[0].Value)

	_, err = svc.LeaderboardBetween(context.Background(), day(time.June, 2), day(time.May, 1), "")
	require.Error(t, err)
}

func TestLeaderboardRejectsUnknownPeriod(t *testing.T) {
	svc := newTestService(newFixture())

	_, err := svc.Leaderboard(context.Background(), "decade", "")
	assert.Error(t, err)
}

func TestOverview(t *testing.T) {
	svc := newTestService(newFixture())

	o, err := svc.Overview(context.Background(), 2025, time.June)
	require.NoError(t, err)

	assert.Equal(t, 2, o.ActiveBarbers)
	assert.Equal(t, 1, o.GoalsAchieved)
	assert.Equal(t, 150, o.TotalClients)
	assertDecimal(t, "24000", o.TotalRevenue)
	assertDecimal(t, "6800", o.TotalCommission)
	assertDecimal(t, "160", o.AverageTicket)
}

func TestEvolution(t *testing.T) {
	svc := newTestService(newFixture())

	points, err := svc.Evolution(context.Background(), "b1", 2025)
	require.NoError(t, err)
	require.Len(t, points, 12)

	assert.Equal(t, 1, points[0].Month)
	assert.True(t, points[0].Earned.IsZero())
	assertDecimal(t, "400", points[4].Earned)
	assert.True(t, points[4].Goal.IsZero())
	assert.False(t, points[4].Achieved)
	assertDecimal(t, "1650", points[5].Earned)
	assertDecimal(t, "1000", points[5].Goal)
	assert.True(t, points[5].Achieved)
}

func TestMonthlyResults(t *testing.T) {
	svc := newTestService(newFixture())

	results, err := svc.MonthlyResults(context.Background(), 2025, time.June)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Ana", results[0].BarberName)
	assert.Equal(t, "Centro", results[0].UnitName)
	assert.True(t, results[0].Achieved)
	assert.Equal(t, "Bruno", results[1].BarberName)
	assert.False(t, results[1].Achieved)
	assertDecimal(t, "5000", results[1].Goal)
	assert.Equal(t, "Caio", results[2].BarberName)
	assertDecimal(t, "4500", results[2].Stats.AccumulatedCommission)
	assertDecimal(t, "0", results[2].Goal)
}

func TestFormatTargetWithoutGoal(t *testing.T) {
	dash := &models.BarberDashboard{Barber: models.Barber{Name: "Ana"}, Year: 2025, Month: 6}
	assert.Contains(t, FormatTarget(dash), "No goal set")
}

func TestFormatLeaderboardEmpty(t *testing.T) {
	out := FormatLeaderboard("Ranking", models.Leaderboard{})
	assert.Contains(t, out, "Services\n  no data")
}

