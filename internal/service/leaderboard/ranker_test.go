package leaderboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func prodRow(barberID, name string, services, products, commission string, clients int) models.ProductionRow {
	return models.ProductionRow{
		DailyProduction: models.DailyProduction{
			BarberID:         barberID,
			Date:             time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
			ServicesTotal:    dec(services),
			ProductsTotal:    dec(products),
			CommissionEarned: dec(commission),
			ClientsCount:     clients,
		},
		BarberName: name,
		UnitName:   "Centro",
	}
}

func values(entries []models.RankingEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Value.String()
	}
	return out
}

func ids(entries []models.RankingEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.BarberID
	}
	return out
}

func TestRankCommissionTopThree(t *testing.T) {
	rows := []models.ProductionRow{
		prodRow("b3", "Rui", "0", "0", "300", 0),
		prodRow("b5", "Edu", "0", "0", "100", 0),
		prodRow("b1", "Ana", "0", "0", "500", 0),
		prodRow("b4", "Leo", "0", "0", "200", 0),
		prodRow("b2", "Bia", "0", "0", "400", 0),
	}

	board := Rank(rows, 3)

	require.Len(t, board.Commission, 3)
	assert.Equal(t, []string{"500", "400", "300"}, values(board.Commission))
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(board.Commission))
	assert.Equal(t, "Ana", board.Commission[0].BarberName)
	assert.Equal(t, "Centro", board.Commission[0].UnitName)
}

func TestRankSumsRowsPerBarber(t *testing.T) {
	rows := []models.ProductionRow{
		prodRow("b1", "Ana", "100", "20", "55", 4),
		prodRow("b2", "Bia", "150", "0", "75", 2),
		prodRow("b1", "Ana", "100", "40", "60", 4),
	}

	board := Rank(rows, 3)

	assert.Equal(t, []string{"b1", "b2"}, ids(board.Services))
	assert.Equal(t, []string{"200", "150"}, values(board.Services))
	assert.Equal(t, []string{"60", "0"}, values(board.Products))
	assert.Equal(t, []string{"b2", "b1"}, ids(board.AverageTicket))
	assert.Equal(t, []string{"75", "32.5"}, values(board.AverageTicket))
	assert.Equal(t, []string{"115", "75"}, values(board.Commission))
}

func TestRankAverageTicketWithoutClients(t *testing.T) {
	board := Rank([]models.ProductionRow{prodRow("b1", "Ana", "300", "0", "150", 0)}, 3)

	require.Len(t, board.AverageTicket, 1)
	assert.True(t, board.AverageTicket[0].Value.IsZero())
}

func TestRankTieBreakIsBarberID(t *testing.T) {
	rows := []models.ProductionRow{
		prodRow("b9", "Zé", "0", "0", "100", 0),
		prodRow("b2", "Bia", "0", "0", "100", 0),
		prodRow("b5", "Edu", "0", "0", "100", 0),
		prodRow("b7", "Gil", "0", "0", "100", 0),
	}

	first := Rank(rows, 3)
	reversed := make([]models.ProductionRow, len(rows))
	for i := range rows {
		reversed[len(rows)-1-i] = rows[i]
	}
	second := Rank(reversed, 3)

	assert.Equal(t, []string{"b2", "b5", "b7"}, ids(first.Commission))
	assert.Equal(t, ids(first.Commission), ids(second.Commission))
}

func TestRankEmptyAndDefaultSize(t *testing.T) {
	board := Rank(nil, 0)
	assert.Empty(t, board.Services)
	assert.Empty(t, board.Commission)

	var rows []models.ProductionRow
	for i, id := range []string{"a", "b", "c", "d"} {
		rows = append(rows, prodRow(id, id, "0", "0", decimal.NewFromInt(int64(i+1)).String(), 0))
	}
	assert.Len(t, Rank(rows, 0).Commission, DefaultSize)
}

func TestRange(t *testing.T) {
	today := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

	start, end := Range(PeriodCurrentMonth, today)
	assert.Equal(t, "2025-03-01", start.Format(models.DateLayout))
	assert.Equal(t, "2025-03-31", end.Format(models.DateLayout))

	start, end = Range(PeriodCurrentWeek, today)
	assert.Equal(t, "2025-03-09", start.Format(models.DateLayout))
	assert.Equal(t, "2025-03-15", end.Format(models.DateLayout))

	start, end = Range(PeriodPreviousMonth, today)
	assert.Equal(t, "2025-02-01", start.Format(models.DateLayout))
	assert.Equal(t, "2025-02-28", end.Format(models.DateLayout))

	assert.NoError(t, ValidPeriod(PeriodCurrentWeek))
	assert.Error(t, ValidPeriod("all_time"))
}
