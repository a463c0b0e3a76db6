package models

import "time"

// Standing: место игрока в конкретном турнире.
// Chips хранится как BIGINT и отдается в JSON числом.
type Standing struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournamentId"`
	PlayerID     string    `json:"playerId"`
	Rank         int       `json:"rank"`
	Chips        int64     `json:"chips"`
	IsSurvivor   bool      `json:"isSurvivor"`
	PrizeAmount  *float64  `json:"prizeAmount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Player     *Player            `json:"player,omitempty"`
	Tournament *TournamentSummary `json:"tournament,omitempty"`
	LiveRank   int                `json:"liveRank,omitempty"`
}

type LiveTournament struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Status       TournamentStatus `json:"status"`
	TotalEntries int              `json:"totalEntries"`
}

// LiveStandings is the chip-ordered view of the players still in a tournament.
type LiveStandings struct {
	Tournament       LiveTournament `json:"tournament"`
	PlayersRemaining int            `json:"playersRemaining"`
	Standings        []Standing     `json:"standings"`
}
