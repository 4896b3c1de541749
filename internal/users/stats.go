package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/types"
)

// StatsSource is satisfied by api.Resource.
type StatsSource interface {
	Stats(ctx context.Context, out any) error
}

// ZeroStats is shown when the stats endpoint cannot be reached.
func ZeroStats() types.UserStats {
	return types.UserStats{Breakdown: map[string]int{
		string(state.TypeCustomer): 0,
		string(state.TypeManager):  0,
		string(state.TypeAdmin):    0,
	}}
}

// LoadStats never fails: any error degrades to ZeroStats.
func LoadStats(ctx context.Context, src StatsSource, logger *slog.Logger) types.UserStats {
	if logger == nil {
		logger = slog.Default()
	}
	var stats types.UserStats
	if err := src.Stats(ctx, &stats); err != nil {
		logger.Warn("user stats unavailable", "error", err)
		return ZeroStats()
	}
	if stats.Breakdown == nil {
		stats.Breakdown = ZeroStats().Breakdown
	}
	return stats
}

// StatCard is one figure of the stats header.
type StatCard struct {
	Title  string
	Value  int
	Footer string
}

// Cards lays the stats out the way the console header shows them.
func Cards(s types.UserStats) []StatCard {
	return []StatCard{
		{Title: "Total Utilisateurs", Value: s.Total, Footer: fmt.Sprintf("Actifs: %d · Inactifs: %d", s.Active, s.Inactive)},
		{Title: "Utilisateurs Actifs", Value: s.Active, Footer: fmt.Sprintf("%.1f%% du total", s.ActivePercentage)},
		{Title: "Utilisateurs Inactifs", Value: s.Inactive, Footer: fmt.Sprintf("%.1f%% du total", inactivePercentage(s))},
		{Title: "Ce Mois", Value: s.ThisMonth, Footer: fmt.Sprintf("Aujourd'hui: %d · Semaine: %d", s.Today, s.ThisWeek)},
	}
}

func inactivePercentage(s types.UserStats) float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 - s.ActivePercentage
}
