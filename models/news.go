package models

import "time"

type NewsCategory string

const (
	CategoryTournaments     NewsCategory = "TOURNAMENTS"
	CategoryIndustry        NewsCategory = "INDUSTRY"
	CategoryStrategy        NewsCategory = "STRATEGY"
	CategoryPlayerInterview NewsCategory = "PLAYER_INTERVIEW"
	CategoryGeneral         NewsCategory = "GENERAL"
)

func (c NewsCategory) Valid() bool {
	switch c {
	case CategoryTournaments, CategoryIndustry, CategoryStrategy, CategoryPlayerInterview, CategoryGeneral:
		return true
	}
	return false
}

type NewsArticle struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Summary     *string      `json:"summary"`
	Content     string       `json:"content"`
	ImageURL    *string      `json:"imageUrl"`
	Category    NewsCategory `json:"category"`
	Author      *string      `json:"author"`
	IsPublished bool         `json:"isPublished"`
	PublishedAt *time.Time   `json:"publishedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
