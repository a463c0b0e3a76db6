package models

import "time"

type VideoHighlight struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     *string            `json:"description"`
	VideoURL        string             `json:"videoUrl"`
	ThumbnailURL    *string            `json:"thumbnailUrl"`
	DurationSeconds *int               `json:"durationSeconds"`
	TournamentID    *string            `json:"tournamentId"`
	ViewCount       int                `json:"viewCount"`
	PublishedAt     time.Time          `json:"publishedAt"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Tournament      *TournamentSummary `json:"tournament,omitempty"`
}
