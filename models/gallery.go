package models

import "time"

type GalleryType string

const (
	GalleryTournament GalleryType = "TOURNAMENT"
	GalleryChampion   GalleryType = "CHAMPION"
	GalleryEvent      GalleryType = "EVENT"
	GalleryGeneral    GalleryType = "GENERAL"
)

func (t GalleryType) Valid() bool {
	switch t {
	case GalleryTournament, GalleryChampion, GalleryEvent, GalleryGeneral:
		return true
	}
	return false
}

type Gallery struct {
	ID          string         `json:"id"`
	Type        GalleryType    `json:"type"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Date        *time.Time     `json:"date"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Photos      []GalleryPhoto `json:"photos"`
	PhotoCount  *int           `json:"photoCount,omitempty"`
}

type GalleryPhoto struct {
	ID           string    `json:"id"`
	GalleryID    string    `json:"galleryId"`
	ImageURL     string    `json:"imageUrl"`
	Caption      *string   `json:"caption"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}
