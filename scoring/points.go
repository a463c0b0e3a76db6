// Package scoring implements the Dream Player of the Year (DPOY) points engine.
// Everything here is a pure function over already-loaded data.
package scoring

import "github.com/Dosada05/poker-dream-api/models"

// Points returns the DPOY points for a single finishing position. The table is a
// step function: ranks between named tiers get the flat tier value.
func Points(rank int) int {
	switch {
	case rank <= 0:
		return 0
	case rank == 1:
		return 100
	case rank == 2:
		return 75
	case rank == 3:
		return 60
	case rank == 4:
		return 45
	case rank == 5:
		return 35
	case rank == 6:
		return 28
	case rank == 7:
		return 22
	case rank == 8:
		return 17
	case rank == 9:
		return 13
	case rank <= 20:
		return 10
	case rank <= 50:
		return 5
	default:
		return 2
	}
}

const finalTableSize = 9

// Summarize aggregates a player's standings into stats and total points.
func Summarize(standings []models.Standing) (models.PlayerStats, int) {
	var stats models.PlayerStats
	points := 0
	for _, s := range standings {
		if s.PrizeAmount != nil {
			stats.TotalEarnings += *s.PrizeAmount
		}
		if s.Rank == 1 {
			stats.Wins++
		}
		if s.Rank <= finalTableSize {
			stats.FinalTables++
		}
		stats.TournamentsPlayed++
		points += Points(s.Rank)
	}
	return stats, points
}
