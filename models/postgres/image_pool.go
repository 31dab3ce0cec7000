package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'ImagePool' tracks which catalog images a registered player has already
 * seen. Available and used are disjoint id lists that together cover the
 * whole catalog. Guests get the same shape in Redis instead.
 */
type ImagePool struct {
	PlayerKey    string         `gorm:"primaryKey;size:100;not null" json:"player_key"`
	AvailableIDs datatypes.JSON `gorm:"default:'[]'" json:"available_ids"`
	UsedIDs      datatypes.JSON `gorm:"default:'[]'" json:"used_ids"`
	TotalImages  int            `gorm:"default:0" json:"total_images"` // catalog size snapshot at creation/refresh
	Version      int            `gorm:"default:0" json:"version"`      // bumped on every write, draws CAS on it
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
