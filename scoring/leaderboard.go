package scoring

import (
	"sort"

	"github.com/Dosada05/poker-dream-api/models"
)

// Build ranks a snapshot of players (each carrying its standings for the season).
// Players without standings are dropped. Ordering is by points descending; the
// sort is stable, so equal points keep the snapshot order.
func Build(players []models.Player) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(players))
	for _, p := range players {
		stats, points := Summarize(p.Standings)
		if stats.TournamentsPlayed == 0 {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			ID:                p.ID,
			Name:              p.Name,
			Country:           p.Country,
			CountryCode:       p.CountryCode,
			ProfileImageURL:   p.ProfileImageURL,
			Points:            points,
			TotalEarnings:     stats.TotalEarnings,
			Wins:              stats.Wins,
			FinalTables:       stats.FinalTables,
			TournamentsPlayed: stats.TournamentsPlayed,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Paginate slices an already ranked list. A page past the end is empty.
func Paginate(entries []models.LeaderboardEntry, page, limit int) models.Page[models.LeaderboardEntry] {
	total := len(entries)
	if page < 1 || limit < 1 {
		return models.NewPage(entries[:0], page, limit, total)
	}
	// За последней страницей: пустой срез, без умножения page*limit.
	if page-1 >= models.NewPagination(page, limit, total).TotalPages {
		return models.NewPage(entries[:0], page, limit, total)
	}
	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}
	return models.NewPage(entries[start:end], page, limit, total)
}
