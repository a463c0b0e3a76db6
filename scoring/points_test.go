package scoring

import (
	"testing"

	"github.com/Dosada05/poker-dream-api/models"
)

func TestPointsTable(t *testing.T) {
	tests := []struct {
		rank int
		want int
	}{
		{1, 100}, {2, 75}, {3, 60}, {4, 45}, {5, 35}, {6, 28}, {7, 22}, {8, 17}, {9, 13},
		{10, 10}, {15, 10}, {20, 10},
		{21, 5}, {33, 5}, {50, 5},
		{51, 2}, {500, 2},
		{0, 0}, {-3, 0},
	}
	for _, tt := range tests {
		if got := Points(tt.rank); got != tt.want {
			t.Errorf("Points(%d) = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

func prize(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	standings := []models.Standing{
		{Rank: 1, PrizeAmount: prize(1000)},
		{Rank: 9, PrizeAmount: prize(150.5)},
		{Rank: 10},
		{Rank: 60, PrizeAmount: prize(0)},
	}

	stats, points := Summarize(standings)
	if points != 100+13+10+2 {
		t.Errorf("points = %d, want 125", points)
	}
	if stats.Wins != 1 {
		t.Errorf("wins = %d, want 1", stats.Wins)
	}
	if stats.FinalTables != 2 {
		t.Errorf("finalTables = %d, want 2", stats.FinalTables)
	}
	if stats.TournamentsPlayed != 4 {
		t.Errorf("tournamentsPlayed = %d, want 4", stats.TournamentsPlayed)
	}
	if stats.TotalEarnings != 1150.5 {
		t.Errorf("totalEarnings = %v, want 1150.5", stats.TotalEarnings)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats, points := Summarize(nil)
	if points != 0 || stats != (models.PlayerStats{}) {
		t.Errorf("Summarize(nil) = %+v, %d", stats, points)
	}
}
