package scoring

import (
	"math"
	"testing"

	"github.com/Dosada05/poker-dream-api/models"
)

func player(id string, ranks ...int) models.Player {
	p := models.Player{ID: id, Name: "Player " + id}
	for _, r := range ranks {
		p.Standings = append(p.Standings, models.Standing{PlayerID: id, Rank: r})
	}
	return p
}

func TestBuildSingleWin(t *testing.T) {
	entries := Build([]models.Player{player("a", 1)})
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Points != 100 || e.Wins != 1 || e.TournamentsPlayed != 1 || e.Rank != 1 {
		t.Errorf("entry = %+v", e)
	}
}

func TestBuildTwoWins(t *testing.T) {
	entries := Build([]models.Player{player("a", 1, 1)})
	if entries[0].Points != 200 || entries[0].Wins != 2 {
		t.Errorf("entry = %+v, want points 200 wins 2", entries[0])
	}
}

func TestBuildDropsPlayersWithoutStandings(t *testing.T) {
	entries := Build([]models.Player{player("idle"), player("b", 3), player("also-idle")})
	if len(entries) != 1 || entries[0].ID != "b" {
		t.Fatalf("entries = %+v, want only b", entries)
	}
}

func TestBuildOrdersByPointsAndKeepsTieOrder(t *testing.T) {
	snapshot := []models.Player{
		player("low", 51),       // 2
		player("tie-first", 2),  // 75
		player("top", 1, 30),    // 105
		player("tie-second", 2), // 75
	}

	entries := Build(snapshot)
	wantOrder := []string{"top", "tie-first", "tie-second", "low"}
	if len(entries) != len(wantOrder) {
		t.Fatalf("len = %d", len(entries))
	}
	for i, id := range wantOrder {
		if entries[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, entries[i].ID, id)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("rank of %s = %d, want %d", id, entries[i].Rank, i+1)
		}
	}
}

func TestPaginate(t *testing.T) {
	var snapshot []models.Player
	for i := 0; i < 7; i++ {
		snapshot = append(snapshot, player(string(rune('a'+i)), i+1))
	}
	entries := Build(snapshot)

	tests := []struct {
		page, limit int
		wantLen     int
		wantFirst   int
		wantPages   int
	}{
		{1, 3, 3, 1, 3},
		{3, 3, 1, 7, 3},
		{4, 3, 0, 0, 3},
		{1, 50, 7, 1, 1},
		{math.MaxInt/100 + 2, 100, 0, 0, 1},
		{math.MaxInt, math.MaxInt, 0, 0, 1},
		{1, math.MaxInt, 7, 1, 1},
	}
	for _, tt := range tests {
		page := Paginate(entries, tt.page, tt.limit)
		if len(page.Data) != tt.wantLen {
			t.Errorf("page %d/%d: len = %d, want %d", tt.page, tt.limit, len(page.Data), tt.wantLen)
			continue
		}
		if tt.wantLen > 0 && page.Data[0].Rank != tt.wantFirst {
			t.Errorf("page %d/%d: first rank = %d, want %d", tt.page, tt.limit, page.Data[0].Rank, tt.wantFirst)
		}
		if page.Pagination.Total != 7 || page.Pagination.TotalPages != tt.wantPages {
			t.Errorf("page %d/%d: pagination = %+v", tt.page, tt.limit, page.Pagination)
		}
		if len(page.Data) > tt.limit {
			t.Errorf("page %d/%d: data longer than limit", tt.page, tt.limit)
		}
	}
}
