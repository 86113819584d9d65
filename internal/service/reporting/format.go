package reporting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// FormatTarget renders the daily target part of a dashboard for chat.
func FormatTarget(d *models.BarberDashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 %s, target for %02d/%d\n", d.Barber.Name, d.Month, d.Year)

	switch {
	case d.Target == nil:
		b.WriteString("No goal set for this month yet.")
	case d.Target.GoalMet:
		fmt.Fprintf(&b, "Goal reached! %s earned of %s.", money(d.Stats.AccumulatedCommission), money(d.Goal.TargetCommission))
	case !d.Target.Available:
		fmt.Fprintf(&b, "No days left to work. Still missing %s.", money(d.Target.Remaining))
	default:
		t := d.Target
		fmt.Fprintf(&b, "Remaining: %s over %d days\n", money(t.Remaining), t.DaysLeft)
		fmt.Fprintf(&b, "Per day: %s commission\n", money(t.DailyCommissionTarget))
		fmt.Fprintf(&b, "Sell %s in services and %s in products (%s gross).",
			money(t.ServicesTarget), money(t.ProductsTarget), money(t.GrossTarget))
	}
	return b.String()
}

// FormatStats renders a dashboard's monthly statistics for chat.
func FormatStats(d *models.BarberDashboard) string {
	s := d.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s, %02d/%d\n", d.Barber.Name, d.Month, d.Year)
	fmt.Fprintf(&b, "Days worked: %d\n", s.DaysWorked)
	fmt.Fprintf(&b, "Revenue: %s\n", money(s.TotalRevenue))
	fmt.Fprintf(&b, "Commission: %s\n", money(s.AccumulatedCommission))
	fmt.Fprintf(&b, "Clients: %d, average ticket %s\n", s.TotalClients, money(s.AverageTicket))
	fmt.Fprintf(&b, "Conversion: services %s%%, products %s%%",
		s.ServicesConversion.StringFixed(1), s.ProductsConversion.StringFixed(1))
	if d.Goal != nil {
		fmt.Fprintf(&b, "\nGoal: %s (%s%%)", money(d.Goal.TargetCommission), d.Progress.StringFixed(1))
	}
	return b.String()
}

// FormatLeaderboard renders every ranking of a leaderboard for chat.
func FormatLeaderboard(title string, lb models.Leaderboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 %s\n", title)
	section := func(name string, entries []models.RankingEntry) {
		fmt.Fprintf(&b, "\n%s\n", name)
		if len(entries) == 0 {
			b.WriteString("  no data\n")
			return
		}
		for i, e := range entries {
			fmt.Fprintf(&b, "  %d. %s %s\n", i+1, e.BarberName, money(e.Value))
		}
	}
	section("Services", lb.Services)
	section("Products", lb.Products)
	section("Average ticket", lb.AverageTicket)
	section("Commission", lb.Commission)
	return strings.TrimRight(b.String(), "\n")
}

// FormatOverview renders the manager's monthly overview for chat.
func FormatOverview(o *models.ManagerOverview) string {
	return fmt.Sprintf("📋 Shop overview %02d/%d\nRevenue: %s\nCommission: %s\nClients: %d, average ticket %s\nGoals achieved: %d of %d barbers",
		o.Month, o.Year, money(o.TotalRevenue), money(o.TotalCommission), o.TotalClients,
		money(o.AverageTicket), o.GoalsAchieved, o.ActiveBarbers)
}
