package models

// DashboardStats: сводка для главной страницы админки.
type DashboardStats struct {
	Tournaments       TournamentStats `json:"tournaments"`
	PlayersTotal      int             `json:"playersTotal"`
	NewsPublished     int             `json:"newsPublished"`
	VideosTotal       int             `json:"videosTotal"`
	ActiveSubscribers int             `json:"activeSubscribers"`
	NewContacts       int             `json:"newContacts"`
	UsersTotal        int             `json:"usersTotal"`
}
