package models

import "time"

type Player struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Country         *string   `json:"country"`
	CountryCode     *string   `json:"countryCode"`
	FlagURL         *string   `json:"flagUrl"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	Bio             *string   `json:"bio"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	StandingsCount *int         `json:"standingsCount,omitempty"`
	Standings      []Standing   `json:"standings,omitempty"`
	Stats          *PlayerStats `json:"stats,omitempty"`
}

// PlayerStats агрегирует результаты игрока по его стендингам.
type PlayerStats struct {
	TotalEarnings     float64 `json:"totalEarnings"`
	Wins              int     `json:"wins"`
	FinalTables       int     `json:"finalTables"`
	TournamentsPlayed int     `json:"tournamentsPlayed"`
}

type PlayerStatsReport struct {
	Player    *Player     `json:"player"`
	Stats     PlayerStats `json:"stats"`
	Standings []Standing  `json:"standings"`
}

type CountryCount struct {
	Country     *string `json:"country"`
	CountryCode *string `json:"countryCode"`
	PlayerCount int     `json:"playerCount"`
}

// LeaderboardEntry is one ranked row of the DPOY leaderboard.
type LeaderboardEntry struct {
	Rank              int     `json:"rank"`
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Country           *string `json:"country"`
	CountryCode       *string `json:"countryCode"`
	ProfileImageURL   *string `json:"profileImageUrl"`
	Points            int     `json:"points"`
	TotalEarnings     float64 `json:"totalEarnings"`
	Wins              int     `json:"wins"`
	FinalTables       int     `json:"finalTables"`
	TournamentsPlayed int     `json:"tournamentsPlayed"`
}
