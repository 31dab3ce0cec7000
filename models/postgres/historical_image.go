package postgres

import (
	"time"
)

/*
 * 'HistoricalImage' is one catalog entry: a photo plus the ground truth a
 * guess is scored against. Rows are written by the admin tooling and are
 * read-only for this service.
 */
type HistoricalImage struct {
	ID           string    `gorm:"primaryKey;size:64;not null" json:"id"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	Year         int       `gorm:"not null" json:"year"`
	Lat          float64   `gorm:"not null" json:"lat"`
	Lng          float64   `gorm:"not null" json:"lng"`
	LocationName string    `gorm:"size:255" json:"location_name"`
	Description  string    `gorm:"size:1024" json:"description"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}
