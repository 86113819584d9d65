package models

import "github.com/shopspring/decimal"

// RankingEntry is one position on a leaderboard.
type RankingEntry struct {
	BarberID   string          `json:"barber_id"`
	BarberName string          `json:"barber_name"`
	UnitName   string          `json:"unit_name"`
	Value      decimal.Decimal `json:"value"`
}

// Leaderboard holds the top barbers for each ranked metric.
type Leaderboard struct {
	Services      []RankingEntry `json:"services"`
	Products      []RankingEntry `json:"products"`
	AverageTicket []RankingEntry `json:"average_ticket"`
	Commission    []RankingEntry `json:"commission"`
}
