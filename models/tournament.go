package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "UPCOMING"
	StatusLive      TournamentStatus = "LIVE"
	StatusCompleted TournamentStatus = "COMPLETED"
	StatusCancelled TournamentStatus = "CANCELLED"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    *string          `json:"description"`
	StartDate      *time.Time       `json:"startDate"`
	EndDate        *time.Time       `json:"endDate"`
	Location       *string          `json:"location"`
	Venue          *string          `json:"venue"`
	Status         TournamentStatus `json:"status"`
	PrizePool      *float64         `json:"prizePool"`
	BuyIn          *float64         `json:"buyIn"`
	TotalEntries   int              `json:"totalEntries"`
	BannerImageURL *string          `json:"bannerImageUrl"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`

	// Заполняются сервисом, в таблице tournaments не хранятся.
	StandingsCount  *int              `json:"standingsCount,omitempty"`
	Standings       []Standing        `json:"standings,omitempty"`
	Structure       []TournamentLevel `json:"structure,omitempty"`
	VideoHighlights []VideoHighlight  `json:"videoHighlights,omitempty"`
}

// TournamentSummary is the slice of a tournament embedded in standings and player views.
type TournamentSummary struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	StartDate *time.Time       `json:"startDate"`
	EndDate   *time.Time       `json:"endDate,omitempty"`
	Location  *string          `json:"location,omitempty"`
	Status    TournamentStatus `json:"status"`
}

// TournamentLevel is one row of a tournament's blind structure.
type TournamentLevel struct {
	ID              string `json:"id"`
	TournamentID    string `json:"tournamentId"`
	Level           int    `json:"level"`
	SmallBlind      int64  `json:"smallBlind"`
	BigBlind        int64  `json:"bigBlind"`
	Ante            int64  `json:"ante"`
	DurationMinutes int    `json:"durationMinutes"`
	IsBreak         bool   `json:"isBreak"`
}

type TournamentStats struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Live      int `json:"live"`
	Completed int `json:"completed"`
}
